package schema

import "time"

// StoreStatus represents the status of the score store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Connected        bool             `json:"connected"`
	TotalRuns        int              `json:"total_runs"`
	TotalExperiments int              `json:"total_experiments"`
	LastRunTime      time.Time        `json:"last_run_time"`
	OldestRunTime    time.Time        `json:"oldest_run_time"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}
