package session

import (
	"fmt"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/plotspec"
	"github.com/papapumpkin/qadash/internal/selection"
	"github.com/papapumpkin/qadash/internal/status"
	"github.com/papapumpkin/qadash/internal/telemetry"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// Frame is what a host draws after handling an intent.
type Frame struct {
	Mode   viewmode.Mode
	Layout viewmode.Layout
	// Messages are the status messages posted since the last frame, most
	// recent first.
	Messages []status.Message
	Summary  catalog.Summary
	// Predicates maps each filtered category to its predicate text.
	Predicates map[catalog.Category]string
}

// SelectMetrics replaces the metric selection of a category. Metric names
// are not checked here; an unknown metric surfaces as a plot error when
// its panel is built.
func (s *Session) SelectMetrics(cat catalog.Category, names []string) error {
	if s.cat != nil && !s.cat.HasCategory(cat) {
		return fmt.Errorf("%w %q", ErrUnknownCategory, cat)
	}
	s.sel.Set(cat, names)
	return nil
}

// Selection returns a deep copy of the metric selection.
func (s *Session) Selection() map[catalog.Category][]string {
	return s.sel.All()
}

// SelectedMetrics returns the metrics selected for one category.
func (s *Session) SelectedMetrics(cat catalog.Category) []string {
	return s.sel.Get(cat)
}

// Mode returns the active view mode.
func (s *Session) Mode() viewmode.Mode {
	return s.ctl.Mode()
}

// Layout returns the current plot region.
func (s *Session) Layout() viewmode.Layout {
	return s.ctl.Layout()
}

// ToggleViewMode switches between the aggregated and sky grid views.
func (s *Session) ToggleViewMode() viewmode.Mode {
	s.ctl.Toggle()
	s.recordMode()
	return s.ctl.Mode()
}

// SetViewMode switches to mode. It reports false when mode is already
// active.
func (s *Session) SetViewMode(mode viewmode.Mode) bool {
	if !s.ctl.Set(mode) {
		return false
	}
	s.recordMode()
	return true
}

func (s *Session) recordMode() {
	mode := s.ctl.Mode()
	s.log.Info("view mode changed", "mode", mode.String())
	s.record(telemetry.KindViewModeChanged, "", map[string]string{"mode": mode.String()})
}

// Render drains the status queue and returns the frame to draw.
func (s *Session) Render() Frame {
	preds := make(map[catalog.Category]string)
	for _, c := range s.view.Categories() {
		if s.view.Filtered(c) {
			preds[c] = s.view.Predicate(c).Text()
		}
	}
	return Frame{
		Mode:       s.ctl.Mode(),
		Layout:     s.ctl.Layout(),
		Messages:   s.queue.DrainAll(),
		Summary:    s.cat.Summary(),
		Predicates: preds,
	}
}

// regenerate rebuilds the plot specs from the selection and rematerializes
// the plot region.
func (s *Session) regenerate() {
	tract := ""
	if s.cat != nil {
		tract = s.cat.Tract
	}
	s.specs = plotspec.Generate(s.sel.All(), s.view.Categories(), tract)
	s.generation++
	s.ctl.Materialize(s.specs)
}

func (s *Session) onSelectionChanged(ch selection.Change) {
	s.log.Info("selection changed", "category", ch.Category, "metrics", len(ch.Metrics))
	s.record(telemetry.KindSelectionChanged, string(ch.Category), map[string]any{"metrics": ch.Metrics})
	s.met.SelectedMetrics(string(ch.Category), len(ch.Metrics))
	if s.quiet {
		return
	}
	s.regenerate()
}

func (s *Session) linkAxes(l viewmode.Layout) {
	rep := s.sync.Link(l.LinkPanels())
	s.lastLink = rep
	s.met.AxisRebinds(rep.Rebinds)
	if len(rep.Groups) == 0 {
		return
	}
	s.log.Debug("axes linked", "groups", len(rep.Groups), "rebinds", rep.Rebinds)
	s.record(telemetry.KindAxesLinked, "", map[string]int{"groups": len(rep.Groups), "rebinds": rep.Rebinds})
}

func (s *Session) onPlotError(e *viewmode.PlotRenderError) {
	title := "Plot Error"
	if e.Spec.Role == plotspec.RoleTopAggregate {
		title = "Visit Plot Warning"
	}
	s.push(status.FromError(title, s.path, e))
	s.log.Warn("plot skipped", "plot", e.Spec.Label(), "err", e.Err)
}

// record emits a telemetry event. Telemetry is best effort: a write
// failure is logged and otherwise ignored.
func (s *Session) record(kind, category string, data any) {
	if err := s.tel.Record(kind, category, data); err != nil {
		s.log.Warn("telemetry write failed", "kind", kind, "err", err)
	}
}
