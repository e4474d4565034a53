package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/churnviz/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRows int
		wantErr  string
	}{
		{
			name:     "basic",
			input:    "Geography,Age,Exited\nFrance,42,1\nSpain,41,0\n",
			wantRows: 2,
		},
		{
			name:     "short row padded",
			input:    "Geography,Age,Exited\nFrance,42\n",
			wantRows: 1,
		},
		{
			name:     "byte order mark",
			input:    "\ufeffGeography,Age,Exited\nFrance,42,1\n",
			wantRows: 1,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "missing header row",
		},
		{
			name:    "long row",
			input:   "a,b\n1,2,3\n",
			wantErr: "line 2 has 3 fields",
		},
		{
			name:    "duplicate header",
			input:   "a,a\n1,2\n",
			wantErr: "duplicate column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, table.NumRows())
			assert.Equal(t, []string{"Geography", "Age", "Exited"}, table.Names())
		})
	}
}

func TestReadCSVKinds(t *testing.T) {
	table, err := ReadCSV(context.Background(), strings.NewReader("Geography,Age,Exited\nFrance,42,1\nSpain,NA,0\n"))
	require.NoError(t, err)

	geo, err := table.Column("Geography")
	require.NoError(t, err)
	assert.Equal(t, schema.CategoricalKind, geo.Kind)

	age, err := table.Column("Age")
	require.NoError(t, err)
	assert.Equal(t, schema.NumericKind, age.Kind)
	assert.Equal(t, []float64{42}, age.PresentFloats())
}

func TestFileLoader_CSV(t *testing.T) {
	loader := NewFileLoader()
	table, err := loader.Load(context.Background(), filepath.Join("..", "..", "core", "agg", "testdata", "churn_sample.csv"))
	require.NoError(t, err)
	assert.Equal(t, 20, table.NumRows())

	_, err = table.Column("Exited")
	assert.NoError(t, err)
}

type churnRow struct {
	Geography string  `parquet:"Geography"`
	Age       int64   `parquet:"Age"`
	Balance   float64 `parquet:"Balance"`
	Exited    int32   `parquet:"Exited"`
}

func TestFileLoader_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churn.parquet")
	rows := []churnRow{
		{Geography: "France", Age: 42, Balance: 0, Exited: 1},
		{Geography: "Spain", Age: 41, Balance: 83807.86, Exited: 0},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	table, err := NewFileLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())

	geo, err := table.Column("Geography")
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Spain"}, geo.Values)

	balance, err := table.Column("Balance")
	require.NoError(t, err)
	assert.Equal(t, schema.NumericKind, balance.Kind)
}

func TestFileLoader_Errors(t *testing.T) {
	loader := NewFileLoader()
	ctx := context.Background()

	t.Run("empty path", func(t *testing.T) {
		_, err := loader.Load(ctx, "")
		assert.ErrorContains(t, err, "--data is required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorContains(t, err, "failed to open data file")
	})

	t.Run("header only", func(t *testing.T) {
		_, err := loader.Load(ctx, writeFile(t, "header.csv", "a,b\n"))
		assert.ErrorIs(t, err, schema.ErrEmptyTable)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.Load(cancelled, writeFile(t, "ok.csv", "a\n1\n"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
