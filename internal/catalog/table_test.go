package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(
		FloatColumn("ra", []float64{1, 2, 3, 4}),
		FloatColumn("psfMag", []float64{18, 19, 20, 21}),
		FloatColumn("e1", []float64{0.1, math.NaN(), 0.3, 0.1}),
		BoolColumn("qaBad_flag", []bool{true, false, true, false}),
		FloatColumn("patch", []float64{1, 1, 2, 2}),
	)
	require.NoError(t, err)
	return tbl
}

func TestNewTableValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cols []Column
		want error
	}{
		{
			name: "length mismatch",
			cols: []Column{FloatColumn("a", []float64{1}), FloatColumn("b", []float64{1, 2})},
			want: ErrColumnLength,
		},
		{
			name: "duplicate",
			cols: []Column{FloatColumn("a", []float64{1}), BoolColumn("a", []bool{true})},
			want: ErrDuplicateColumn,
		},
		{
			name: "empty name",
			cols: []Column{FloatColumn("", []float64{1})},
			want: ErrEmptyColumnName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTable(tt.cols...)
			require.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestTableMetricsAndFlags(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)

	require.Equal(t, 4, tbl.Len())
	require.Equal(t, []string{"ra", "psfMag", "e1", "qaBad_flag", "patch"}, tbl.Columns())
	require.Equal(t, []string{"e1"}, tbl.Metrics())
	require.Equal(t, []string{"qaBad_flag"}, tbl.Flags())
}

func TestTableSubset(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)

	sub := tbl.Subset([]int{3, 0})
	require.Equal(t, 2, sub.Len())

	v, ok := sub.Float("ra", 0)
	require.True(t, ok)
	require.Equal(t, 4.0, v)

	flag, ok := sub.Float("qaBad_flag", 1)
	require.True(t, ok)
	require.Equal(t, 1.0, flag)

	// The source table is untouched.
	v, _ = tbl.Float("ra", 0)
	require.Equal(t, 1.0, v)
}

func TestTableDistinctAndBounds(t *testing.T) {
	t.Parallel()
	tbl := testTable(t)

	require.Equal(t, 2, tbl.Distinct("patch"))
	require.Equal(t, 2, tbl.Distinct("e1"))
	require.Equal(t, 0, tbl.Distinct("missing"))

	lo, hi, ok := tbl.Bounds("e1")
	require.True(t, ok)
	require.Equal(t, 0.1, lo)
	require.Equal(t, 0.3, hi)

	_, _, ok = tbl.Bounds("qaBad_flag")
	require.False(t, ok)
}

func TestNilTable(t *testing.T) {
	t.Parallel()
	var tbl *Table

	require.Equal(t, 0, tbl.Len())
	require.Nil(t, tbl.Metrics())
	require.Nil(t, tbl.Subset([]int{0}))
	_, ok := tbl.Column("ra")
	require.False(t, ok)
}

func TestParseColumnKind(t *testing.T) {
	t.Parallel()

	for _, k := range []ColumnKind{KindFloat, KindBool} {
		got, err := ParseColumnKind(k.String())
		require.NoError(t, err)
		require.Equal(t, k, got)
	}
	_, err := ParseColumnKind("complex")
	require.Error(t, err)
}
