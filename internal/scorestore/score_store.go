package scorestore

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/google/uuid"
	"github.com/huangsam/churnviz/internal/contract"
	"github.com/huangsam/churnviz/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for score tracking.
const (
	runsTable   = "churnviz_runs"
	scoresTable = "churnviz_scores"
)

// holdoutFold marks a held-out score in the fold column.
const holdoutFold = -1

// sqliteTimeLayout keeps SQLite timestamps sortable as text.
const sqliteTimeLayout = time.RFC3339

// ScoreStoreImpl implements the ScoreStore interface.
type ScoreStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.ScoreStore = &ScoreStoreImpl{} // Compile-time check

// NewScoreStore creates a new ScoreStore with the specified backend.
func NewScoreStore(backend schema.DatabaseBackend, connStr string) (contract.ScoreStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &ScoreStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createScoreTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create score tables: %w", err)
	}

	return &ScoreStoreImpl{db: db, backend: backend, driverName: driverName}, nil
}

// openDB opens a connection pool for the backend without verifying it.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		dsn, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse MySQL connection string: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		dsn.ParseTime = true
		db, err := sql.Open("mysql", dsn.FormatDSN())
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}
		return db, "pgx", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// createScoreTables creates the score tracking tables.
func createScoreTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{scoresTable, getCreateScoresQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for churnviz_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL PRIMARY KEY,
				batch_id VARCHAR(36) NOT NULL,
				experiment VARCHAR(255) NOT NULL,
				model VARCHAR(255) NOT NULL,
				model_position INT NOT NULL,
				recorded_at DATETIME NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL PRIMARY KEY,
				batch_id VARCHAR(36) NOT NULL,
				experiment TEXT NOT NULL,
				model TEXT NOT NULL,
				model_position INT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL PRIMARY KEY,
				batch_id TEXT NOT NULL,
				experiment TEXT NOT NULL,
				model TEXT NOT NULL,
				model_position INTEGER NOT NULL,
				recorded_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateScoresQuery returns the CREATE TABLE query for churnviz_scores.
func getCreateScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(scoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				metric VARCHAR(255) NOT NULL,
				fold INT NOT NULL,
				score DOUBLE NOT NULL,
				PRIMARY KEY (run_id, metric, fold)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				metric TEXT NOT NULL,
				fold INT NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, metric, fold)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				metric TEXT NOT NULL,
				fold INTEGER NOT NULL,
				score REAL NOT NULL,
				PRIMARY KEY (run_id, metric, fold)
			);
		`, quotedTableName)
	}
}

// quoteTableName quotes a table name for the backend.
func quoteTableName(tableName string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + tableName + "`"
	default:
		return `"` + tableName + `"`
	}
}

// rebind rewrites "?" placeholders as "$n" for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// query builds a backend query from a template holding %[1]s for the runs table
// and %[2]s for the scores table.
func (ss *ScoreStoreImpl) query(template string) string {
	q := fmt.Sprintf(template, quoteTableName(runsTable, ss.backend), quoteTableName(scoresTable, ss.backend))
	return rebind(q, ss.backend)
}

// disabled reports whether the store is a no-op.
func (ss *ScoreStoreImpl) disabled() bool {
	return ss.backend == schema.NoneBackend || ss.db == nil
}

// RecordExperiment stores every model of the experiment in one transaction.
// Timestamps are kept at second precision so every backend orders them alike.
func (ss *ScoreStoreImpl) RecordExperiment(exp schema.Experiment, recordedAt time.Time) ([]string, error) {
	if ss.disabled() {
		return nil, nil
	}
	if strings.TrimSpace(exp.Name) == "" {
		return nil, fmt.Errorf("experiment name is required")
	}
	if len(exp.Models) == 0 {
		return nil, fmt.Errorf("%w: experiment %q has no models", schema.ErrEmptyTable, exp.Name)
	}

	recordedAt = recordedAt.UTC().Truncate(time.Second)
	batchID := uuid.NewString()

	tx, err := ss.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertRun := ss.query(`INSERT INTO %[1]s (run_id, batch_id, experiment, model, model_position, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`)
	insertScore := ss.query(`INSERT INTO %[2]s (run_id, metric, fold, score) VALUES (?, ?, ?, ?)`)

	runIDs := make([]string, 0, len(exp.Models))
	for position, sc := range exp.Models {
		runID := uuid.NewString()
		if _, err := tx.Exec(insertRun, runID, batchID, exp.Name, sc.Model, position, ss.formatTime(recordedAt)); err != nil {
			return nil, fmt.Errorf("failed to insert run for model %q: %w", sc.Model, err)
		}
		for _, metric := range sortedKeys(sc.Scores) {
			for fold, v := range sc.Scores[metric] {
				if _, err := tx.Exec(insertScore, runID, metric, fold, v); err != nil {
					return nil, fmt.Errorf("failed to insert %q fold %d for model %q: %w", metric, fold, sc.Model, err)
				}
			}
		}
		for _, metric := range sortedKeys(sc.Holdout) {
			if _, err := tx.Exec(insertScore, runID, metric, holdoutFold, sc.Holdout[metric]); err != nil {
				return nil, fmt.Errorf("failed to insert %q holdout for model %q: %w", metric, sc.Model, err)
			}
		}
		runIDs = append(runIDs, runID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit experiment %q: %w", exp.Name, err)
	}
	return runIDs, nil
}

// LoadExperiment rebuilds the most recently recorded batch of an experiment.
func (ss *ScoreStoreImpl) LoadExperiment(name string) (schema.Experiment, error) {
	if ss.disabled() {
		return schema.Experiment{}, fmt.Errorf("%w: %q (score store is disabled)", schema.ErrUnknownExperiment, name)
	}

	var batchID string
	row := ss.db.QueryRow(ss.query(`SELECT batch_id FROM %[1]s WHERE experiment = ? ORDER BY recorded_at DESC LIMIT 1`), name)
	if err := row.Scan(&batchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schema.Experiment{}, fmt.Errorf("%w: %q", schema.ErrUnknownExperiment, name)
		}
		return schema.Experiment{}, fmt.Errorf("failed to find latest batch of %q: %w", name, err)
	}

	rows, err := ss.db.Query(ss.query(`SELECT run_id, model FROM %[1]s WHERE batch_id = ? ORDER BY model_position`), batchID)
	if err != nil {
		return schema.Experiment{}, fmt.Errorf("failed to query runs of %q: %w", name, err)
	}
	type run struct{ id, model string }
	var runs []run
	for rows.Next() {
		var r run
		if err := rows.Scan(&r.id, &r.model); err != nil {
			_ = rows.Close()
			return schema.Experiment{}, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return schema.Experiment{}, fmt.Errorf("error iterating runs: %w", err)
	}

	exp := schema.Experiment{Name: name}
	for _, r := range runs {
		sc, err := ss.loadScores(r.id)
		if err != nil {
			return schema.Experiment{}, err
		}
		sc.Model = r.model
		exp.Models = append(exp.Models, sc)
	}
	return exp, nil
}

// loadScores rebuilds the score collection of one run.
func (ss *ScoreStoreImpl) loadScores(runID string) (schema.ScoreCollection, error) {
	rows, err := ss.db.Query(ss.query(`SELECT metric, fold, score FROM %[2]s WHERE run_id = ? ORDER BY metric, fold`), runID)
	if err != nil {
		return schema.ScoreCollection{}, fmt.Errorf("failed to query scores of run %s: %w", runID, err)
	}
	defer func() { _ = rows.Close() }()

	sc := schema.ScoreCollection{Scores: map[string][]float64{}}
	for rows.Next() {
		var metric string
		var fold int
		var value float64
		if err := rows.Scan(&metric, &fold, &value); err != nil {
			return schema.ScoreCollection{}, fmt.Errorf("failed to scan score: %w", err)
		}
		if fold == holdoutFold {
			if sc.Holdout == nil {
				sc.Holdout = map[string]float64{}
			}
			sc.Holdout[metric] = value
			continue
		}
		sc.Scores[metric] = append(sc.Scores[metric], value)
	}
	if err := rows.Err(); err != nil {
		return schema.ScoreCollection{}, fmt.Errorf("error iterating scores: %w", err)
	}
	return sc, nil
}

// ListExperiments summarizes every recorded experiment by name.
func (ss *ScoreStoreImpl) ListExperiments() ([]schema.ExperimentSummary, error) {
	if ss.disabled() {
		return nil, nil
	}

	rows, err := ss.db.Query(ss.query(`SELECT experiment, COUNT(DISTINCT model), COUNT(DISTINCT batch_id), MAX(recorded_at) FROM %[1]s GROUP BY experiment ORDER BY experiment`))
	if err != nil {
		return nil, fmt.Errorf("failed to query experiments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ExperimentSummary
	for rows.Next() {
		var summary schema.ExperimentSummary
		if err := rows.Scan(&summary.Experiment, &summary.Models, &summary.Runs, dbTime{&summary.LastRun}); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}
		results = append(results, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating experiments: %w", err)
	}
	return results, nil
}

// GetAllRuns retrieves every run ordered by recording time and position.
func (ss *ScoreStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if ss.disabled() {
		return nil, nil
	}

	rows, err := ss.db.Query(ss.query(`SELECT run_id, batch_id, experiment, model, model_position, recorded_at FROM %[1]s ORDER BY recorded_at, experiment, model_position`))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		if err := rows.Scan(&record.RunID, &record.BatchID, &record.Experiment, &record.Model, &record.Position, dbTime{&record.RecordedAt}); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllScores retrieves every stored score ordered by run, metric and fold.
func (ss *ScoreStoreImpl) GetAllScores() ([]schema.ScoreRecord, error) {
	if ss.disabled() {
		return nil, nil
	}

	rows, err := ss.db.Query(ss.query(`SELECT run_id, metric, fold, score FROM %[2]s ORDER BY run_id, metric, fold`))
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScoreRecord
	for rows.Next() {
		var record schema.ScoreRecord
		if err := rows.Scan(&record.RunID, &record.Metric, &record.Fold, &record.Value); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		record.Holdout = record.Fold == holdoutFold
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the score store.
func (ss *ScoreStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(ss.backend),
		Connected:  ss.db != nil,
		TableSizes: make(map[string]int64),
	}
	if ss.disabled() {
		return status, nil
	}

	row := ss.db.QueryRow(ss.query(`SELECT COUNT(*), COUNT(DISTINCT experiment) FROM %[1]s`))
	if err := row.Scan(&status.TotalRuns, &status.TotalExperiments); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = ss.db.QueryRow(ss.query(`SELECT MAX(recorded_at), MIN(recorded_at) FROM %[1]s`))
		if err := row.Scan(dbTime{&status.LastRunTime}, dbTime{&status.OldestRunTime}); err != nil {
			return status, fmt.Errorf("failed to get run times: %w", err)
		}
	}

	for _, table := range []string{runsTable, scoresTable} {
		var count int64
		row = ss.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, ss.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// Close closes the underlying connection.
func (ss *ScoreStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func (ss *ScoreStoreImpl) formatTime(t time.Time) any {
	if ss.backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t
}

// dbTime scans native timestamps as well as the text SQLite returns.
type dbTime struct {
	t *time.Time
}

// Scan implements sql.Scanner.
func (d dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d.t = time.Time{}
		return nil
	case time.Time:
		*d.t = v
		return nil
	case []byte:
		return d.parse(string(v))
	case string:
		return d.parse(v)
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (d dbTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			*d.t = t
			return nil
		}
	}
	return fmt.Errorf("failed to parse time %q", s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
