// Package dataset holds the raw and filtered table of every category and
// swaps filtered views in as predicates are recompiled.
package dataset

import (
	"errors"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/observe"
	"github.com/papapumpkin/qadash/internal/query"
)

// View is the per-category dataset view. Filtered tables are replaced
// wholesale, never mutated. A View is not safe for concurrent use.
type View struct {
	cat       *catalog.Catalog
	filtered  map[catalog.Category]*catalog.Table
	predicate map[catalog.Category]query.Predicate
	swapped   observe.Registry[catalog.Category]
}

// New creates a view over cat with no active filters.
func New(cat *catalog.Catalog) *View {
	return &View{
		cat:       cat,
		filtered:  make(map[catalog.Category]*catalog.Table),
		predicate: make(map[catalog.Category]query.Predicate),
	}
}

// Catalog returns the catalog the view reads from.
func (v *View) Catalog() *catalog.Catalog {
	return v.cat
}

// Categories returns the catalog's categories in iteration order.
func (v *View) Categories() []catalog.Category {
	if v.cat == nil {
		return nil
	}
	return v.cat.Categories
}

// Raw returns the unfiltered table for category, or nil when the band is
// missing.
func (v *View) Raw(category catalog.Category) *catalog.Table {
	return v.cat.Object(category)
}

// Recompute evaluates p against the category's raw table and swaps in the
// result. The identity predicate clears the filtered view. On failure the
// previous filtered view is kept and the error is a *query.FilterCompileError
// naming the category.
func (v *View) Recompute(category catalog.Category, p query.Predicate) error {
	raw := v.Raw(category)
	if p.Identity() {
		delete(v.filtered, category)
		delete(v.predicate, category)
		v.swapped.Notify(category)
		return nil
	}
	if raw == nil {
		// A missing band has nothing to filter.
		return nil
	}

	sub, err := p.Filter(raw)
	if err != nil {
		var fce *query.FilterCompileError
		if errors.As(err, &fce) {
			fce.Category = string(category)
		}
		return err
	}
	v.filtered[category] = sub
	v.predicate[category] = p
	v.swapped.Notify(category)
	return nil
}

// ActiveView returns the filtered table when a filter is active for the
// category, otherwise the raw table. No copy is made.
func (v *View) ActiveView(category catalog.Category) *catalog.Table {
	if t, ok := v.filtered[category]; ok {
		return t
	}
	return v.Raw(category)
}

// Filtered reports whether a non-identity filter is active for category.
func (v *View) Filtered(category catalog.Category) bool {
	_, ok := v.filtered[category]
	return ok
}

// Predicate returns the predicate that produced the category's filtered
// view, or the identity predicate.
func (v *View) Predicate(category catalog.Category) query.Predicate {
	return v.predicate[category]
}

// Replace swaps in a reloaded catalog and drops every filtered view.
func (v *View) Replace(cat *catalog.Catalog) {
	v.cat = cat
	clear(v.filtered)
	clear(v.predicate)
}

// Subscribe registers fn to run after every successful swap.
func (v *View) Subscribe(fn func(catalog.Category)) (unsubscribe func()) {
	return v.swapped.Subscribe(fn)
}
