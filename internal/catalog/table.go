package catalog

import (
	"fmt"
	"math"
)

// ColumnKind identifies the value type stored in a Column.
type ColumnKind int

const (
	// KindFloat columns hold float64 values (metrics and coordinates).
	KindFloat ColumnKind = iota
	// KindBool columns hold boolean flags.
	KindBool
)

// String returns the storage name of the kind.
func (k ColumnKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ParseColumnKind converts a storage name back into a ColumnKind.
func ParseColumnKind(s string) (ColumnKind, error) {
	switch s {
	case "float":
		return KindFloat, nil
	case "bool":
		return KindBool, nil
	default:
		return 0, fmt.Errorf("unknown column kind %q", s)
	}
}

// reservedDims are float columns that describe where an object is rather
// than how well it was measured. They are never offered as metrics.
var reservedDims = map[string]bool{
	"ra":       true,
	"dec":      true,
	"psfMag":   true,
	"objectId": true,
	"patch":    true,
	"tract":    true,
	"visit":    true,
}

// IsReservedDim reports whether name is a coordinate or identifier column.
func IsReservedDim(name string) bool {
	return reservedDims[name]
}

// Column is a single named column. Exactly one of Floats or Bools is
// populated, matching Kind.
type Column struct {
	Name   string
	Kind   ColumnKind
	Floats []float64
	Bools  []bool
}

// FloatColumn builds a float column.
func FloatColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindFloat, Floats: values}
}

// BoolColumn builds a flag column.
func BoolColumn(name string, values []bool) Column {
	return Column{Name: name, Kind: KindBool, Bools: values}
}

// Len returns the number of rows in the column.
func (c Column) Len() int {
	if c.Kind == KindBool {
		return len(c.Bools)
	}
	return len(c.Floats)
}

// Table is an immutable columnar table. Tables are never modified after
// construction; filtering produces a new Table via Subset.
type Table struct {
	cols  []Column
	index map[string]int
	rows  int
}

// NewTable validates the columns and builds a table. All columns must have
// the same length and unique names.
func NewTable(cols ...Column) (*Table, error) {
	t := &Table{
		cols:  make([]Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d: %w", i, ErrEmptyColumnName)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("%w: %s has %d rows, want %d", ErrColumnLength, c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// Len returns the row count. A nil table has zero rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	if t == nil {
		return Column{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Metrics returns the float columns that are not reserved dimensions, in
// table order. These are the names a user may select for plotting.
func (t *Table) Metrics() []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, c := range t.cols {
		if c.Kind == KindFloat && !reservedDims[c.Name] {
			out = append(out, c.Name)
		}
	}
	return out
}

// Flags returns the boolean column names in table order.
func (t *Table) Flags() []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, c := range t.cols {
		if c.Kind == KindBool {
			out = append(out, c.Name)
		}
	}
	return out
}

// Float returns the float value at row for the named column. Bool columns
// are read as 0 or 1.
func (t *Table) Float(name string, row int) (float64, bool) {
	c, ok := t.Column(name)
	if !ok || row < 0 || row >= t.rows {
		return math.NaN(), false
	}
	if c.Kind == KindBool {
		if c.Bools[row] {
			return 1, true
		}
		return 0, true
	}
	return c.Floats[row], true
}

// Subset returns a new table holding the given rows in the given order.
// Row indices must be in range.
func (t *Table) Subset(rows []int) *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		cols:  make([]Column, len(t.cols)),
		index: make(map[string]int, len(t.cols)),
		rows:  len(rows),
	}
	for i, c := range t.cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		switch c.Kind {
		case KindBool:
			nc.Bools = make([]bool, len(rows))
			for j, r := range rows {
				nc.Bools[j] = c.Bools[r]
			}
		default:
			nc.Floats = make([]float64, len(rows))
			for j, r := range rows {
				nc.Floats[j] = c.Floats[r]
			}
		}
		out.cols[i] = nc
		out.index[c.Name] = i
	}
	return out
}

// Distinct counts the distinct non-NaN values of a column. Missing columns
// count zero.
func (t *Table) Distinct(name string) int {
	return len(t.distinctValues(name))
}

func (t *Table) distinctValues(name string) map[float64]struct{} {
	seen := make(map[float64]struct{})
	c, ok := t.Column(name)
	if !ok {
		return seen
	}
	switch c.Kind {
	case KindBool:
		for _, v := range c.Bools {
			if v {
				seen[1] = struct{}{}
			} else {
				seen[0] = struct{}{}
			}
		}
	default:
		for _, v := range c.Floats {
			if !math.IsNaN(v) {
				seen[v] = struct{}{}
			}
		}
	}
	return seen
}

// Bounds returns the finite minimum and maximum of a float column. ok is
// false when the column is missing or holds no finite values.
func (t *Table) Bounds(name string) (lo, hi float64, ok bool) {
	c, found := t.Column(name)
	if !found || c.Kind != KindFloat {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range c.Floats {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}
