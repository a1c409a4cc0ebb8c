package query

import (
	"fmt"
	"strconv"
	"strings"
)

// FlagClause requires a flag column to equal Value.
type FlagClause struct {
	Name  string
	Value bool
}

// String formats the clause the way it appears in predicate text.
func (c FlagClause) String() string {
	v := "False"
	if c.Value {
		v = "True"
	}
	return quoteName(c.Name) + "==" + v
}

// ParseFlagClause parses "name" or "name=value" as typed on a command line
// or in the dashboard's flag prompt. A bare name means name==True. Values
// are parsed with strconv.ParseBool, so True, false and 1 are all accepted.
func ParseFlagClause(s string) (FlagClause, error) {
	name, value, hasValue := strings.Cut(strings.TrimSpace(s), "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return FlagClause{}, fmt.Errorf("%w: empty flag name in %q", ErrSyntax, s)
	}
	if !hasValue {
		return FlagClause{Name: name, Value: true}, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return FlagClause{}, fmt.Errorf("%w: flag %s needs a boolean value, got %q", ErrSyntax, name, value)
	}
	return FlagClause{Name: name, Value: v}, nil
}

// FilterState is an ordered set of unique flag clauses plus a free-text
// query. The zero value is an empty state.
type FilterState struct {
	flags []FlagClause
	query string
}

// SetFlag adds a clause, or updates the value of an existing one in place
// so its position in the ordering is kept.
func (s *FilterState) SetFlag(name string, value bool) {
	for i := range s.flags {
		if s.flags[i].Name == name {
			s.flags[i].Value = value
			return
		}
	}
	s.flags = append(s.flags, FlagClause{Name: name, Value: value})
}

// RemoveFlag deletes a clause. A name that is not set fails with
// *UnknownFlagError and leaves the state unchanged.
func (s *FilterState) RemoveFlag(name string) error {
	for i := range s.flags {
		if s.flags[i].Name == name {
			s.flags = append(s.flags[:i:i], s.flags[i+1:]...)
			return nil
		}
	}
	return &UnknownFlagError{Name: name}
}

// HasFlag reports whether a clause for name is set.
func (s FilterState) HasFlag(name string) bool {
	for _, f := range s.flags {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Flags returns a copy of the clauses in order.
func (s FilterState) Flags() []FlagClause {
	if len(s.flags) == 0 {
		return nil
	}
	return append([]FlagClause(nil), s.flags...)
}

// SetQuery replaces the free-text query.
func (s *FilterState) SetQuery(q string) {
	s.query = q
}

// Query returns the free-text query as entered.
func (s FilterState) Query() string {
	return s.query
}

// IsEmpty reports whether the state has no flags and a blank query.
func (s FilterState) IsEmpty() bool {
	return len(s.flags) == 0 && strings.TrimSpace(s.query) == ""
}

// Clone returns an independent copy.
func (s FilterState) Clone() FilterState {
	return FilterState{flags: s.Flags(), query: s.query}
}

// Compile compiles the state into a predicate.
func (s FilterState) Compile() (Predicate, error) {
	return Compile(s.flags, s.query)
}
