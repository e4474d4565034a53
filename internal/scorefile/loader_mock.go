package scorefile

import (
	"context"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockScoreLoader is a mock implementation of ScoreLoader for testing.
type MockScoreLoader struct {
	mock.Mock
}

var _ contract.ScoreLoader = &MockScoreLoader{} // Compile-time check

// LoadScores implements the ScoreLoader interface.
func (m *MockScoreLoader) LoadScores(ctx context.Context, paths ...string) (schema.Experiment, error) {
	args := m.Called(ctx, paths)
	return args.Get(0).(schema.Experiment), args.Error(1)
}
