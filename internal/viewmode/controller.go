// Package viewmode arbitrates between the aggregated layout and the tabbed
// sky-grid layout of the plot region. Switching layouts rebuilds only the
// plot region; selection and filter state live elsewhere and are never
// touched.
package viewmode

import (
	"github.com/papapumpkin/qadash/internal/axislink"
	"github.com/papapumpkin/qadash/internal/observe"
	"github.com/papapumpkin/qadash/internal/plotspec"
)

// Panel is a materialized plot.
type Panel interface {
	axislink.Panel
	// Spec returns the spec the panel was built from.
	Spec() plotspec.Spec
	// Render draws the panel into a width x height cell block.
	Render(width, height int) string
}

// Materializer turns a spec into a panel. Axis ranges are allocated in
// axes, which the controller resets before every materialization.
type Materializer interface {
	Materialize(spec plotspec.Spec, axes *axislink.Table) (Panel, error)
}

// PlotRenderError reports a spec that could not be materialized.
type PlotRenderError struct {
	Spec plotspec.Spec
	Err  error
}

// Error names the failing panel and the cause.
func (e *PlotRenderError) Error() string {
	return "render " + string(e.Spec.Role) + " plot " + e.Spec.Label() + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *PlotRenderError) Unwrap() error {
	return e.Err
}

// Tab is one labelled sky panel.
type Tab struct {
	Label string
	Panel Panel
}

// Layout is the materialized plot region.
type Layout struct {
	Mode Mode
	// Top holds the top-aggregate panels in aggregated mode.
	Top []Panel
	// List holds the detail panels in aggregated mode, in spec order.
	List []Panel
	// Tabs holds the sky panels in sky-grid mode, in spec order.
	Tabs []Tab
}

// Empty reports whether the region holds no panels. An empty region has
// zero height.
func (l Layout) Empty() bool {
	return len(l.Top) == 0 && len(l.List) == 0 && len(l.Tabs) == 0
}

// Panels returns every panel in the region in display order.
func (l Layout) Panels() []Panel {
	out := make([]Panel, 0, len(l.Top)+len(l.List)+len(l.Tabs))
	out = append(out, l.Top...)
	out = append(out, l.List...)
	for _, t := range l.Tabs {
		out = append(out, t.Panel)
	}
	return out
}

// LinkPanels adapts the region's panels for the axis synchronizer.
func (l Layout) LinkPanels() []axislink.Panel {
	panels := l.Panels()
	out := make([]axislink.Panel, len(panels))
	for i, p := range panels {
		out[i] = p
	}
	return out
}

// Controller owns the current mode and the materialized plot region.
type Controller struct {
	mode   Mode
	mat    Materializer
	axes   *axislink.Table
	specs  []plotspec.Spec
	layout Layout

	hooks    observe.Registry[Layout]
	failures observe.Registry[*PlotRenderError]
}

// New returns a controller in the initial mode with an empty region.
func New(mat Materializer, axes *axislink.Table, initial Mode) *Controller {
	return &Controller{
		mode:   initial,
		mat:    mat,
		axes:   axes,
		layout: Layout{Mode: initial},
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Layout returns the current plot region.
func (c *Controller) Layout() Layout {
	return c.layout
}

// Axes returns the range arena backing the region's panels.
func (c *Controller) Axes() *axislink.Table {
	return c.axes
}

// OnMaterialize registers a hook that runs after every materialization,
// before the region is rendered.
func (c *Controller) OnMaterialize(fn func(Layout)) (unsubscribe func()) {
	return c.hooks.Subscribe(fn)
}

// OnError registers the sink that receives per-spec render failures.
func (c *Controller) OnError(fn func(*PlotRenderError)) (unsubscribe func()) {
	return c.failures.Subscribe(fn)
}

// Materialize tears down the plot region and rebuilds it from specs for the
// active mode. A spec that fails to materialize is reported to the error
// sinks and skipped; the rest still materialize.
func (c *Controller) Materialize(specs []plotspec.Spec) Layout {
	c.specs = append([]plotspec.Spec(nil), specs...)
	c.axes.Reset()

	next := Layout{Mode: c.mode}
	for _, spec := range c.specs {
		if !c.wants(spec.Role) {
			continue
		}
		p, err := c.mat.Materialize(spec, c.axes)
		if err != nil {
			c.failures.Notify(&PlotRenderError{Spec: spec, Err: err})
			continue
		}
		switch spec.Role {
		case plotspec.RoleTopAggregate:
			next.Top = append(next.Top, p)
		case plotspec.RoleDetail:
			next.List = append(next.List, p)
		case plotspec.RoleSky:
			next.Tabs = append(next.Tabs, Tab{Label: spec.Label(), Panel: p})
		}
	}

	c.layout = next
	c.hooks.Notify(next)
	return next
}

func (c *Controller) wants(role plotspec.Role) bool {
	if c.mode == SkyGrid {
		return role == plotspec.RoleSky
	}
	return role == plotspec.RoleTopAggregate || role == plotspec.RoleDetail
}

// Toggle switches to the other mode and rematerializes the last specs.
func (c *Controller) Toggle() Layout {
	c.mode = c.mode.Other()
	return c.Materialize(c.specs)
}

// Set switches to mode and rematerializes. It reports false and does
// nothing when mode is already active.
func (c *Controller) Set(mode Mode) bool {
	if mode == c.mode {
		return false
	}
	c.mode = mode
	c.Materialize(c.specs)
	return true
}

// Specs returns a copy of the specs last materialized.
func (c *Controller) Specs() []plotspec.Spec {
	return append([]plotspec.Spec(nil), c.specs...)
}
