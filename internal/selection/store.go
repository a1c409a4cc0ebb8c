// Package selection tracks which metrics the user has chosen per category.
package selection

import (
	"maps"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/observe"
)

// Change describes one selection edit delivered to subscribers.
type Change struct {
	Category catalog.Category
	Metrics  []string
}

// Store maps each category to its ordered metric selection. Metric names
// are not validated here; plot specs check them when they are consumed.
type Store struct {
	selected map[catalog.Category][]string
	changed  observe.Registry[Change]
}

// New returns an empty store.
func New() *Store {
	return &Store{selected: make(map[catalog.Category][]string)}
}

// Set replaces the category's selection with a copy of metrics and notifies
// subscribers, even when the new selection equals the old one.
func (s *Store) Set(category catalog.Category, metrics []string) {
	cp := append([]string(nil), metrics...)
	s.selected[category] = cp
	s.changed.Notify(Change{Category: category, Metrics: append([]string(nil), cp...)})
}

// Get returns a copy of the category's selection.
func (s *Store) Get(category catalog.Category) []string {
	return append([]string(nil), s.selected[category]...)
}

// All returns a deep copy of every category's selection.
func (s *Store) All() map[catalog.Category][]string {
	out := maps.Clone(s.selected)
	if out == nil {
		out = make(map[catalog.Category][]string)
	}
	for k, v := range out {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Reset clears every selection without notifying subscribers.
func (s *Store) Reset() {
	clear(s.selected)
}

// Subscribe registers fn to run synchronously after every Set, in
// registration order.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	return s.changed.Subscribe(fn)
}
