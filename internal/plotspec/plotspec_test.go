package plotspec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/qadash/internal/catalog"
)

func TestGenerateOrderAndTags(t *testing.T) {
	t.Parallel()

	selected := map[catalog.Category][]string{
		"HSC-R": {"m1", "m2"},
		"HSC-G": {"m1"},
		"HSC-Z": nil,
	}
	cats := []catalog.Category{"HSC-R", "HSC-Z", "HSC-G"}

	got := Generate(selected, cats, "9615")
	want := []Spec{
		{Role: RoleTopAggregate, Category: "HSC-R", Metrics: []string{"m1", "m2"}, Tag: "visit:9615"},
		{Role: RoleDetail, Category: "HSC-R", Metrics: []string{"m1"}, Tag: "metric:m1"},
		{Role: RoleSky, Category: "HSC-R", Metrics: []string{"m1"}, Tag: "metric:m1"},
		{Role: RoleDetail, Category: "HSC-R", Metrics: []string{"m2"}, Tag: "metric:m2"},
		{Role: RoleSky, Category: "HSC-R", Metrics: []string{"m2"}, Tag: "metric:m2"},
		{Role: RoleTopAggregate, Category: "HSC-G", Metrics: []string{"m1"}, Tag: "visit:9615"},
		{Role: RoleDetail, Category: "HSC-G", Metrics: []string{"m1"}, Tag: "metric:m1"},
		{Role: RoleSky, Category: "HSC-G", Metrics: []string{"m1"}, Tag: "metric:m1"},
	}
	require.Equal(t, want, got)
}

func TestGenerateEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, Generate(nil, catalog.DefaultCategories(), "1"))
}

func TestGenerateIsPure(t *testing.T) {
	t.Parallel()

	selected := map[catalog.Category][]string{"HSC-R": {"a"}}
	a := Generate(selected, []catalog.Category{"HSC-R"}, "1")
	selected["HSC-R"][0] = "changed"
	b := Generate(map[catalog.Category][]string{"HSC-R": {"a"}}, []catalog.Category{"HSC-R"}, "1")

	require.Equal(t, []string{"a"}, a[0].Metrics)
	require.Equal(t, a, b)
}

func TestSpecAccessors(t *testing.T) {
	t.Parallel()

	s := Spec{Role: RoleSky, Category: "HSC-I", Metrics: []string{"e1"}}
	require.Equal(t, MetricRef{Category: "HSC-I", Name: "e1"}, s.Ref())
	require.Equal(t, "HSC-I - e1", s.Label())

	top := Spec{Role: RoleTopAggregate, Category: "HSC-I", Metrics: []string{"a", "b"}}
	require.Len(t, top.Refs(), 2)
	require.Equal(t, "HSC-I - visits", top.Label())

	specs := []Spec{s, top, s}
	require.Len(t, Filter(specs, RoleSky), 2)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	s := Spec{Role: RoleTopAggregate, Category: "HSC-R", Metrics: []string{"a", "ghost"}}
	err := Validate(s, []string{"a", "b"})

	var ume *UnknownMetricError
	require.True(t, errors.As(err, &ume))
	require.Equal(t, MetricRef{Category: "HSC-R", Name: "ghost"}, ume.Ref)
	require.True(t, errors.Is(err, ErrUnknownMetric))

	require.NoError(t, Validate(Spec{Metrics: []string{"b"}}, []string{"a", "b"}))
}

func TestValidateAgainstTable(t *testing.T) {
	t.Parallel()

	tbl, err := catalog.NewTable(catalog.FloatColumn("ra", []float64{1}), catalog.FloatColumn("e1", []float64{1}))
	require.NoError(t, err)

	require.NoError(t, ValidateAgainst(Spec{Metrics: []string{"e1"}}, tbl))
	require.Error(t, ValidateAgainst(Spec{Metrics: []string{"ra"}}, tbl))
	require.Error(t, ValidateAgainst(Spec{Metrics: []string{"e1"}}, nil))
}
