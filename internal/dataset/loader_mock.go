package dataset

import (
	"context"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockTableLoader is a mock implementation of TableLoader for testing.
type MockTableLoader struct {
	mock.Mock
}

var _ contract.TableLoader = &MockTableLoader{} // Compile-time check

// Load implements the TableLoader interface.
func (m *MockTableLoader) Load(ctx context.Context, path string) (*schema.Table, error) {
	args := m.Called(ctx, path)
	table, _ := args.Get(0).(*schema.Table)
	return table, args.Error(1)
}
