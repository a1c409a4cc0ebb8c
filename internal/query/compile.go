// Package query compiles flag filters and free-text query expressions into
// row predicates over catalog tables.
//
// The expression language is the subset of pandas DataFrame.query that QA
// users write: comparisons (chained comparisons included), arithmetic, the
// logical operators & | ~ (or and, or, not), True and False, backticked
// column names, and the functions abs, isnan and isfinite. Comparisons bind
// tighter than & and |.
package query

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/qadash/internal/catalog"
)

// Predicate is a compiled filter. The zero value is the identity predicate,
// which selects every row.
type Predicate struct {
	text string
	root node
}

// Identity returns the predicate that selects every row.
func Identity() Predicate {
	return Predicate{}
}

// Compile builds a predicate from flag clauses in order and a free-text
// query. Each flag becomes name==True or name==False; clauses are joined
// with " & " and the trimmed query, when present, is appended the same way.
// No flags and a blank query yield the identity predicate.
//
// Malformed text fails with *FilterCompileError.
func Compile(flags []FlagClause, q string) (Predicate, error) {
	text := Text(flags, q)
	if text == "" {
		return Identity(), nil
	}
	root, err := parse(text)
	if err != nil {
		return Predicate{}, &FilterCompileError{Text: text, Err: err}
	}
	return Predicate{text: text, root: root}, nil
}

// Text renders the predicate text for flags and query without parsing it.
func Text(flags []FlagClause, q string) string {
	parts := make([]string, 0, len(flags)+1)
	for _, f := range flags {
		parts = append(parts, f.String())
	}
	if q = strings.TrimSpace(q); q != "" {
		parts = append(parts, q)
	}
	return strings.Join(parts, " & ")
}

// Text returns the full predicate text. The identity predicate has empty text.
func (p Predicate) Text() string {
	return p.text
}

// Identity reports whether p selects every row unconditionally.
func (p Predicate) Identity() bool {
	return p.root == nil
}

// String implements fmt.Stringer.
func (p Predicate) String() string {
	if p.Identity() {
		return "<all rows>"
	}
	return p.text
}

// Select evaluates p against t and returns the indices of matching rows in
// table order. Unknown columns and type errors fail with
// *FilterCompileError.
func (p Predicate) Select(t *catalog.Table) ([]int, error) {
	n := t.Len()
	if p.Identity() {
		rows := make([]int, n)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}

	b, err := bind(p.root, t)
	if err != nil {
		return nil, &FilterCompileError{Text: p.text, Err: err}
	}
	if !b.isBool() {
		return nil, &FilterCompileError{
			Text: p.text,
			Err:  fmt.Errorf("%w: expression does not evaluate to booleans", ErrType),
		}
	}

	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if b.cond(i) {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// Filter returns the subset of t selected by p.
func (p Predicate) Filter(t *catalog.Table) (*catalog.Table, error) {
	if p.Identity() {
		return t, nil
	}
	rows, err := p.Select(t)
	if err != nil {
		return nil, err
	}
	return t.Subset(rows), nil
}
