package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/churnviz/internal/contract"
)

// ExecuteScoresRecord reads the configured score files and records them as one batch.
// The experiment flag overrides the name found in the files.
func ExecuteScoresRecord(ctx context.Context, w io.Writer, cfg *contract.Config, scores contract.ScoreLoader, mgr contract.StoreManager) error {
	if len(cfg.ScoresPaths) == 0 {
		return errors.New("--scores is required")
	}
	store := storeOf(mgr)
	if store == nil {
		return errors.New("score store is not initialized")
	}

	exp, err := scores.LoadScores(ctx, cfg.ScoresPaths...)
	if err != nil {
		return err
	}
	if cfg.Experiment != "" {
		exp.Name = cfg.Experiment
	}

	ids, err := store.RecordExperiment(exp, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record experiment %q: %w", exp.Name, err)
	}
	_, _ = fmt.Fprintf(w, "📝 Recorded %d models for experiment %s\n", len(ids), exp.Name)
	return nil
}
