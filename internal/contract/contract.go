// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/churnviz/schema"
)

// TableLoader reads a dataset file into an in-memory table.
// This allows the rendering logic to be tested without files on disk.
type TableLoader interface {
	Load(ctx context.Context, path string) (*schema.Table, error)
}

// ScoreLoader reads score files into an experiment.
type ScoreLoader interface {
	LoadScores(ctx context.Context, paths ...string) (schema.Experiment, error)
}

// StoreManager defines the interface for managing the score store.
// This allows the store layer to be mocked for testing.
type StoreManager interface {
	GetScoreStore() ScoreStore
}

// ScoreStore defines the interface for recording and reloading score collections.
type ScoreStore interface {
	// RecordExperiment stores every model of the experiment and returns one run ID per model
	RecordExperiment(exp schema.Experiment, recordedAt time.Time) ([]string, error)

	// LoadExperiment rebuilds the most recent score collections of an experiment
	LoadExperiment(name string) (schema.Experiment, error)

	// ListExperiments summarizes every recorded experiment
	ListExperiments() ([]schema.ExperimentSummary, error)

	// GetAllRuns retrieves every run ordered by recording time
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllScores retrieves every stored score ordered by run, metric and fold
	GetAllScores() ([]schema.ScoreRecord, error)

	// GetStatus returns status information about the score store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}
