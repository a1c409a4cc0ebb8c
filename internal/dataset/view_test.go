package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/query"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	r, err := catalog.NewTable(
		catalog.FloatColumn("x", []float64{1, 2, 3, 4}),
		catalog.BoolColumn("good", []bool{true, false, true, true}),
	)
	require.NoError(t, err)
	z, err := catalog.NewTable(catalog.FloatColumn("y", []float64{1, 2}))
	require.NoError(t, err)
	return &catalog.Catalog{
		Categories: []catalog.Category{"R", "Z", "G"},
		Objects:    map[catalog.Category]*catalog.Table{"R": r, "Z": z},
	}
}

func mustCompile(t *testing.T, flags []query.FlagClause, q string) query.Predicate {
	t.Helper()
	p, err := query.Compile(flags, q)
	require.NoError(t, err)
	return p
}

func TestActiveViewDefaultsToRaw(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	v := New(c)

	require.Same(t, c.Object("R"), v.ActiveView("R"))
	require.False(t, v.Filtered("R"))
	require.Nil(t, v.ActiveView("G"))
}

func TestRecomputeSwapsFilteredView(t *testing.T) {
	t.Parallel()
	v := New(testCatalog(t))

	var swaps []catalog.Category
	v.Subscribe(func(c catalog.Category) { swaps = append(swaps, c) })

	p := mustCompile(t, []query.FlagClause{{Name: "good", Value: true}}, "x > 1")
	require.NoError(t, v.Recompute("R", p))
	require.True(t, v.Filtered("R"))
	require.Equal(t, 2, v.ActiveView("R").Len())
	require.Equal(t, p.Text(), v.Predicate("R").Text())
	require.Equal(t, []catalog.Category{"R"}, swaps)
}

func TestRecomputeIdentityRestoresRaw(t *testing.T) {
	t.Parallel()
	c := testCatalog(t)
	v := New(c)

	require.NoError(t, v.Recompute("R", mustCompile(t, nil, "x > 3")))
	require.Equal(t, 1, v.ActiveView("R").Len())

	require.NoError(t, v.Recompute("R", query.Identity()))
	require.Same(t, c.Object("R"), v.ActiveView("R"))
	require.Equal(t, 4, v.ActiveView("R").Len())
}

func TestRecomputeFailureKeepsPreviousView(t *testing.T) {
	t.Parallel()
	v := New(testCatalog(t))

	require.NoError(t, v.Recompute("R", mustCompile(t, nil, "x > 2")))
	before := v.ActiveView("R")

	err := v.Recompute("R", mustCompile(t, nil, "nope > 2"))
	var fce *query.FilterCompileError
	require.True(t, errors.As(err, &fce))
	require.Equal(t, "R", fce.Category)
	require.True(t, errors.Is(err, query.ErrUnknownColumn))
	require.Same(t, before, v.ActiveView("R"))
}

func TestRecomputeMissingBand(t *testing.T) {
	t.Parallel()
	v := New(testCatalog(t))

	require.NoError(t, v.Recompute("G", mustCompile(t, nil, "x > 2")))
	require.False(t, v.Filtered("G"))
}

func TestReplaceDropsFilters(t *testing.T) {
	t.Parallel()
	v := New(testCatalog(t))
	require.NoError(t, v.Recompute("R", mustCompile(t, nil, "x > 2")))

	next := testCatalog(t)
	v.Replace(next)
	require.False(t, v.Filtered("R"))
	require.Same(t, next.Object("R"), v.ActiveView("R"))
	require.Same(t, next, v.Catalog())
}
