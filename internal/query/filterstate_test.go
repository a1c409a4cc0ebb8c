package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterStateOrdering(t *testing.T) {
	t.Parallel()

	var s FilterState
	require.True(t, s.IsEmpty())

	s.SetFlag("b", true)
	s.SetFlag("a", false)
	s.SetFlag("b", false)

	require.Equal(t, []FlagClause{{"b", false}, {"a", false}}, s.Flags())
	require.True(t, s.HasFlag("a"))
	require.False(t, s.IsEmpty())
}

func TestFilterStateRemoveUnknownLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	var s FilterState
	s.SetFlag("a", true)
	s.SetQuery("x > 1")
	before := s.Clone()

	err := s.RemoveFlag("zzz")
	var ufe *UnknownFlagError
	require.True(t, errors.As(err, &ufe))
	require.Equal(t, "zzz", ufe.Name)
	require.True(t, errors.Is(err, ErrUnknownFlag))

	require.Equal(t, before.Flags(), s.Flags())
	require.Equal(t, before.Query(), s.Query())
}

func TestFilterStateRemove(t *testing.T) {
	t.Parallel()

	var s FilterState
	s.SetFlag("a", true)
	s.SetFlag("b", true)
	s.SetFlag("c", true)
	require.NoError(t, s.RemoveFlag("b"))
	require.Equal(t, []FlagClause{{"a", true}, {"c", true}}, s.Flags())
}

func TestFilterStateCloneIsIndependent(t *testing.T) {
	t.Parallel()

	var s FilterState
	s.SetFlag("a", true)
	c := s.Clone()
	c.SetFlag("a", false)
	c.SetQuery("q > 0")

	require.Equal(t, []FlagClause{{"a", true}}, s.Flags())
	require.Equal(t, "", s.Query())
}

func TestFilterStateCompile(t *testing.T) {
	t.Parallel()

	var s FilterState
	p, err := s.Compile()
	require.NoError(t, err)
	require.True(t, p.Identity())

	s.SetQuery("   ")
	require.True(t, s.IsEmpty())

	s.SetFlag("A", true)
	s.SetQuery("B>0")
	p, err = s.Compile()
	require.NoError(t, err)
	require.Equal(t, "A==True & B>0", p.Text())
}

func TestParseFlagClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want FlagClause
	}{
		{"qaBad_flag", FlagClause{"qaBad_flag", true}},
		{" qaBad_flag = False ", FlagClause{"qaBad_flag", false}},
		{"calib_psf_used=true", FlagClause{"calib_psf_used", true}},
		{"a=0", FlagClause{"a", false}},
	}
	for _, tt := range tests {
		got, err := ParseFlagClause(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	for _, bad := range []string{"", "=true", "a=maybe"} {
		_, err := ParseFlagClause(bad)
		require.True(t, errors.Is(err, ErrSyntax), "input %q", bad)
	}
}

func TestFilterStateReadableByValue(t *testing.T) {
	t.Parallel()

	build := func() FilterState {
		var s FilterState
		s.SetFlag("a", true)
		s.SetQuery("x > 1")
		return s
	}

	require.Equal(t, []FlagClause{{"a", true}}, build().Flags())
	require.Equal(t, "x > 1", build().Query())
	require.True(t, build().HasFlag("a"))
	require.False(t, build().IsEmpty())
	require.Equal(t, build().Flags(), build().Clone().Flags())

	p, err := build().Compile()
	require.NoError(t, err)
	require.Equal(t, "a==True & x > 1", p.Text())
}
