// Package session is the single aggregate a dashboard host drives. It owns
// the loaded catalog, the per-category filter states and dataset views, the
// metric selection, the generated plot specs, the view-mode controller and
// the status queue, and it maps each user intent onto them.
//
// A Session is not safe for concurrent use. Hosts call it from one
// goroutine: the bubbletea update loop, or the control server's dispatcher.
package session

import (
	"log/slog"
	"time"

	"github.com/papapumpkin/qadash/internal/axislink"
	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/dataset"
	"github.com/papapumpkin/qadash/internal/logging"
	"github.com/papapumpkin/qadash/internal/metrics"
	"github.com/papapumpkin/qadash/internal/plotspec"
	"github.com/papapumpkin/qadash/internal/query"
	"github.com/papapumpkin/qadash/internal/render"
	"github.com/papapumpkin/qadash/internal/selection"
	"github.com/papapumpkin/qadash/internal/status"
	"github.com/papapumpkin/qadash/internal/telemetry"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// Options configures a Session. Zero values are usable: a discarding
// logger, no telemetry, no metrics, the terminal materializer and the
// aggregated view.
type Options struct {
	Logger    *slog.Logger
	Telemetry *telemetry.Emitter
	Metrics   *metrics.Collector
	// Materializer builds panels from the session's dataset view. Nil uses
	// render.NewMaterializer.
	Materializer   func(*dataset.View) viewmode.Materializer
	InitialMode    viewmode.Mode
	StatusDuration time.Duration
	// Clock stamps status messages. Nil uses time.Now.
	Clock func() time.Time
}

// Session is the dashboard engine aggregate.
type Session struct {
	path  string
	cat   *catalog.Catalog
	view  *dataset.View
	flags map[catalog.Category]*query.FilterState
	query string

	sel   *selection.Store
	specs []plotspec.Spec
	ctl   *viewmode.Controller
	axes  *axislink.Table
	sync  *axislink.Synchronizer
	queue *status.Queue

	generation int
	lastLink   axislink.Report
	// quiet suppresses spec regeneration while Install rebuilds the
	// selection.
	quiet bool

	log *slog.Logger
	tel *telemetry.Emitter
	met *metrics.Collector
	now func() time.Time
}

// New returns a session with no repository loaded.
func New(opts Options) *Session {
	s := &Session{
		view:  dataset.New(nil),
		flags: make(map[catalog.Category]*query.FilterState),
		sel:   selection.New(),
		axes:  axislink.NewTable(),
		queue: status.NewQueue(),
		log:   opts.Logger,
		tel:   opts.Telemetry,
		met:   opts.Metrics,
		now:   opts.Clock,
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.queue.SetClock(s.now)
	s.queue.SetDefaultDuration(opts.StatusDuration)
	s.sync = axislink.NewSynchronizer(s.axes)

	var mat viewmode.Materializer
	if opts.Materializer != nil {
		mat = opts.Materializer(s.view)
	} else {
		mat = render.NewMaterializer(s.view)
	}
	s.ctl = viewmode.New(mat, s.axes, opts.InitialMode)

	s.sel.Subscribe(s.onSelectionChanged)
	s.ctl.OnMaterialize(s.linkAxes)
	s.ctl.OnError(s.onPlotError)
	s.queue.Subscribe(func(m status.Message) {
		s.met.StatusMessage(m.Severity.String())
	})
	return s
}

// Path returns the loaded repository path, or "" before the first load.
func (s *Session) Path() string {
	return s.path
}

// Catalog returns the loaded catalog, or nil.
func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

// View returns the per-category dataset view.
func (s *Session) View() *dataset.View {
	return s.view
}

// Categories returns the catalog's categories, or the default band set
// before a repository is loaded.
func (s *Session) Categories() []catalog.Category {
	if s.cat != nil {
		return s.cat.Categories
	}
	return catalog.DefaultCategories()
}

// Summary returns the info-bar counts of the loaded catalog.
func (s *Session) Summary() catalog.Summary {
	return s.cat.Summary()
}

// AvailableMetrics returns the selectable metrics of a category.
func (s *Session) AvailableMetrics(cat catalog.Category) []string {
	return s.cat.AvailableMetrics(cat)
}

// FlagOptions returns the flag names the repository publishes.
func (s *Session) FlagOptions() []string {
	if s.cat == nil {
		return nil
	}
	return append([]string(nil), s.cat.Flags...)
}

// Specs returns a copy of the current plot specs.
func (s *Session) Specs() []plotspec.Spec {
	return append([]plotspec.Spec(nil), s.specs...)
}

// Generation counts plot spec regenerations since the session was created.
func (s *Session) Generation() int {
	return s.generation
}

// Axes returns the range arena backing the materialized panels.
func (s *Session) Axes() *axislink.Table {
	return s.axes
}

// LastLink returns the report of the most recent axis link pass.
func (s *Session) LastLink() axislink.Report {
	return s.lastLink
}

// Pending returns the number of undrained status messages.
func (s *Session) Pending() int {
	return s.queue.Len()
}

// SubscribeStatus registers fn to run after every status push, so a host
// can schedule a render.
func (s *Session) SubscribeStatus(fn func(status.Message)) (unsubscribe func()) {
	return s.queue.Subscribe(fn)
}

// Post queues a status message from the host, such as a rejected prompt
// entry, alongside the session's own messages.
func (s *Session) Post(m status.Message) status.Message {
	return s.queue.Push(m)
}

func (s *Session) push(m status.Message) status.Message {
	return s.queue.Push(m)
}
