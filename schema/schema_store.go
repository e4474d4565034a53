package schema

import "time"

// RunRecord represents a row from the churnviz_runs table.
// One run stores the score collection of one model inside an experiment. Runs written
// by the same record call share a batch.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	BatchID    string    `json:"batch_id"`
	Experiment string    `json:"experiment"`
	Model      string    `json:"model"`
	Position   int       `json:"position"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ExperimentSummary is one line of the experiment listing.
type ExperimentSummary struct {
	Experiment string    `json:"experiment"`
	Models     int       `json:"models"`
	Runs       int       `json:"runs"`
	LastRun    time.Time `json:"last_run"`
}

// ScoreRecord represents one stored score. Fold is the zero-based fold index for
// cross-validation scores and -1 for held-out scores.
type ScoreRecord struct {
	RunID   string  `json:"run_id"`
	Metric  string  `json:"metric"`
	Fold    int     `json:"fold"`
	Holdout bool    `json:"holdout"`
	Value   float64 `json:"value"`
}
