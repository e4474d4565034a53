package scorestore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/internal/parquet"
)

// ExecuteStoreExport writes every recorded run and score to Parquet files next to outputFile.
func ExecuteStoreExport(w io.Writer, mgr contract.StoreManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetScoreStore()
	if store == nil {
		return errors.New("score store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no score data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total score records: %d\n", status.TableSizes[scoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve scores: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "💾 Wrote %d runs to %s\n", len(parquetRuns), runsFile)

	parquetScores := parquet.ConvertScoreRecords(scores)
	scoresFile := outputFile + ".scores.parquet"
	if err := parquet.WriteScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "💾 Wrote %d scores to %s\n", len(parquetScores), scoresFile)

	return nil
}
