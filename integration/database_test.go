//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestScoresWithMySQL tests the scores commands with a MySQL backend.
func TestScoresWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "churnviz",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/churnviz?parseTime=true", host, port.Port())
	runStoreScenario(t, []string{
		"CHURNVIZ_STORE_BACKEND=mysql",
		"CHURNVIZ_STORE_DB_CONNECT=" + connStr,
	})
}

// TestScoresWithPostgres tests the scores commands with a PostgreSQL backend.
func TestScoresWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runStoreScenario(t, []string{
		"CHURNVIZ_STORE_BACKEND=postgresql",
		"CHURNVIZ_STORE_DB_CONNECT=" + connStr,
	})
}

// runStoreScenario records the sample scores and charts them back out of the store.
func runStoreScenario(t *testing.T, env []string) {
	t.Helper()
	out := t.TempDir()

	_, err := runCommand(t, env, "scores", "clear")
	require.NoError(t, err)

	stdout, err := runCommand(t, env, "scores", "migrate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "to version")

	stdout, err = runCommand(t, env, "scores", "record", "--scores", scoresPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recorded 3 models for experiment churn-integration")

	stdout, err = runCommand(t, env, "scores", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "churn-integration: 3 models, 1 recordings")

	stdout, err = runCommand(t, env, "scores", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total Runs: 3")

	stdout, err = runCommand(t, env, "models", "cv_roc_auc",
		"--experiment", "churn-integration",
		"--output", "csv",
		"--chart-file", filepath.Join(out, "models.html"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "models,cv_roc_auc,Forest,median,0.840")

	stdout, err = runCommand(t, env, "scores", "export", "--output-file", filepath.Join(out, "export"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 3 runs")
	assert.FileExists(t, filepath.Join(out, "export.scores.parquet"))
}
