// Package axislink owns the coordinate ranges of plot axes and links the
// ranges of panels that share an axis tag.
//
// Ranges live in a Table arena and panels refer to them through Handles.
// Linking rewrites handles so that every panel in a tag group points at the
// same range index; a pan through any handle is then seen through all of
// them.
package axislink

import "fmt"

// Range is a coordinate interval with the tag that groups it for linking.
// An empty Tag never links.
type Range struct {
	Start float64
	End   float64
	Tag   string
}

// Span returns End - Start.
func (r Range) Span() float64 {
	return r.End - r.Start
}

// Handle is an index into a Table. Panels hold handles by pointer so the
// synchronizer can rebind them.
type Handle int

// Table is the range arena. It is not safe for concurrent use.
type Table struct {
	ranges []Range
}

// NewTable returns an empty arena.
func NewTable() *Table {
	return &Table{}
}

// Add stores r and returns its handle.
func (t *Table) Add(r Range) Handle {
	t.ranges = append(t.ranges, r)
	return Handle(len(t.ranges) - 1)
}

// Get returns the range behind h.
func (t *Table) Get(h Handle) Range {
	t.check(h)
	return t.ranges[h]
}

// Set replaces the interval behind h, keeping its tag.
func (t *Table) Set(h Handle, start, end float64) {
	t.check(h)
	t.ranges[h].Start = start
	t.ranges[h].End = end
}

// Pan shifts the range behind h by delta.
func (t *Table) Pan(h Handle, delta float64) {
	t.check(h)
	t.ranges[h].Start += delta
	t.ranges[h].End += delta
}

// Zoom scales the range behind h about its midpoint. factor < 1 zooms in.
func (t *Table) Zoom(h Handle, factor float64) {
	t.check(h)
	r := &t.ranges[h]
	mid := (r.Start + r.End) / 2
	half := r.Span() / 2 * factor
	r.Start, r.End = mid-half, mid+half
}

// Len returns the number of ranges in the arena.
func (t *Table) Len() int {
	return len(t.ranges)
}

// Reset empties the arena. Handles issued before Reset are invalid.
func (t *Table) Reset() {
	t.ranges = t.ranges[:0]
}

func (t *Table) check(h Handle) {
	if h < 0 || int(h) >= len(t.ranges) {
		panic(fmt.Sprintf("axislink: handle %d out of range [0,%d)", h, len(t.ranges)))
	}
}
