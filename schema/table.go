package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column is a named, typed column of raw cell values.
// Values keep their original text so categorical plots show labels as they appear in the source.
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []string
}

// Table is an in-memory, read-only table of equally sized columns.
type Table struct {
	Columns []Column
	index   map[string]int
}

// NewTable builds a table from columns, inferring the kind of any column without one.
// It returns an error when column lengths differ or a name repeats.
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{Columns: make([]Column, 0, len(columns)), index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if i > 0 && len(c.Values) != len(columns[0].Values) {
			return nil, fmt.Errorf("column %q has %d values, expected %d", c.Name, len(c.Values), len(columns[0].Values))
		}
		if c.Kind == "" {
			c.Kind = InferKind(c.Values)
		}
		t.index[c.Name] = i
		t.Columns = append(t.Columns, c)
	}
	return t, nil
}

// NewTableFromRows builds a table from a header and row-major records.
// Short rows are padded with missing values.
func NewTableFromRows(header []string, rows [][]string) (*Table, error) {
	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: strings.TrimSpace(name), Values: make([]string, len(rows))}
	}
	for r, row := range rows {
		for i := range columns {
			if i < len(row) {
				columns[i].Values[r] = strings.TrimSpace(row[i])
			}
		}
	}
	return NewTable(columns...)
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Column returns the named column or ErrUnknownField.
func (t *Table) Column(name string) (*Column, error) {
	if t != nil {
		if i, ok := t.index[name]; ok {
			return &t.Columns[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the numeric columns in table order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for i := range t.Columns {
		if t.Columns[i].Kind == NumericKind {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}

// Floats parses every value of a numeric column. The second slice reports which
// positions held a usable number; missing cells parse as zero with ok=false.
func (c *Column) Floats() ([]float64, []bool) {
	values := make([]float64, len(c.Values))
	ok := make([]bool, len(c.Values))
	for i, v := range c.Values {
		values[i], ok[i] = ParseNumber(v)
	}
	return values, ok
}

// PresentFloats returns only the non-missing numeric values of the column, in row order.
func (c *Column) PresentFloats() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := ParseNumber(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// IsMissing reports whether a raw cell value represents a missing value.
func IsMissing(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "na", "nan", "null", "none":
		return true
	default:
		return false
	}
}

// ParseNumber parses a raw cell into a finite float. Booleans parse as 0/1.
// Infinities and NaN spellings are not numbers here.
func ParseNumber(v string) (float64, bool) {
	if IsMissing(v) {
		return 0, false
	}
	s := strings.TrimSpace(v)
	switch strings.ToLower(s) {
	case "true":
		return 1, true
	case "false":
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// InferKind returns NumericKind when every non-missing value parses as a number
// and at least one value is present.
func InferKind(values []string) ColumnKind {
	present := 0
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		if _, ok := ParseNumber(v); !ok {
			return CategoricalKind
		}
		present++
	}
	if present == 0 {
		return CategoricalKind
	}
	return NumericKind
}
