package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/churnviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberFormat(t *testing.T) {
	tests := []struct {
		name      string
		kind      schema.ChartKind
		precision int
		value     float64
		cell      string
		fixed     string
	}{
		{name: "bar counts", kind: schema.BarChart, precision: 3, value: 7, cell: "7", fixed: "7.000"},
		{name: "pie counts round", kind: schema.PieChart, precision: 1, value: 6.9999999, cell: "7", fixed: "7.0"},
		{name: "correlation", kind: schema.CorrChart, precision: 2, value: -0.4257, cell: "-0.43", fixed: "-0.43"},
		{name: "box quartile", kind: schema.BoxChart, precision: 4, value: 3.14159, cell: "3.1416", fixed: "3.1416"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := formatFor(tt.kind, tt.precision)
			assert.Equal(t, tt.cell, f.cell(tt.value))
			assert.Equal(t, tt.fixed, f.fixed(tt.value))
		})
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeJSON(&buf, map[string]any{"field": "Geography", "total": 3}))
	assert.Equal(t, "{\n  \"field\": \"Geography\",\n  \"total\": 3\n}\n", buf.String())

	err := encodeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSV(&buf, []string{"series", "key"}, [][]string{{"Exited", "France, Paris"}, {"Not exited", "Spain"}})
	require.NoError(t, err)
	assert.Equal(t, "series,key\nExited,\"France, Paris\"\nNot exited,Spain\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriteCSVSurfacesFlushError(t *testing.T) {
	err := writeCSV(failingWriter{}, []string{"col"}, [][]string{{"a"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWithOutput(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := withOutput("", "table", func(io.Writer) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := withOutput(path, "table", func(w io.Writer) error {
			_, err := w.Write([]byte("Geography"))
			return err
		})
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Geography", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		err := withOutput(filepath.Join(t.TempDir(), "out.txt"), "table", func(io.Writer) error {
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := withOutput("/nonexistent/path/file.txt", "table", func(io.Writer) error { return nil })
		assert.Error(t, err)
	})
}
