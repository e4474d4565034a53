package scorestore

import (
	"time"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetScoreStore implements the StoreManager interface.
func (m *MockStoreManager) GetScoreStore() contract.ScoreStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ScoreStore)
	return store
}

// MockScoreStore is a mock implementation of ScoreStore for testing.
type MockScoreStore struct {
	mock.Mock
}

var _ contract.ScoreStore = &MockScoreStore{} // Compile-time check

// RecordExperiment implements the ScoreStore interface.
func (m *MockScoreStore) RecordExperiment(exp schema.Experiment, recordedAt time.Time) ([]string, error) {
	args := m.Called(exp, recordedAt)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

// LoadExperiment implements the ScoreStore interface.
func (m *MockScoreStore) LoadExperiment(name string) (schema.Experiment, error) {
	args := m.Called(name)
	return args.Get(0).(schema.Experiment), args.Error(1)
}

// ListExperiments implements the ScoreStore interface.
func (m *MockScoreStore) ListExperiments() ([]schema.ExperimentSummary, error) {
	args := m.Called()
	experiments, _ := args.Get(0).([]schema.ExperimentSummary)
	return experiments, args.Error(1)
}

// GetAllRuns implements the ScoreStore interface.
func (m *MockScoreStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllScores implements the ScoreStore interface.
func (m *MockScoreStore) GetAllScores() ([]schema.ScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.ScoreRecord)
	return scores, args.Error(1)
}

// GetStatus implements the ScoreStore interface.
func (m *MockScoreStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ScoreStore interface.
func (m *MockScoreStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
