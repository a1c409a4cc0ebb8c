// Package telemetry provides a JSONL event stream for recording dashboard
// session activity. Repository loads, filter recompiles, selection edits,
// view switches and axis link passes are each recorded as a structured JSON
// event, so a session can be audited and replayed after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindRepositoryLoaded = "repository_loaded"
	KindLoadFailed       = "load_failed"
	KindFilterApplied    = "filter_applied"
	KindFilterFailed     = "filter_failed"
	KindSelectionChanged = "selection_changed"
	KindViewModeChanged  = "view_mode_changed"
	KindAxesLinked       = "axes_linked"
)

// Event represents a single telemetry record. Each event carries a
// timestamp, a kind tag, the category it concerns (if any) and arbitrary
// structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Category  string    `json:"category,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events as JSON lines. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	closer io.Closer
	enc    *json.Encoder
	now    func() time.Time
	mu     sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{closer: f, enc: json.NewEncoder(f), now: time.Now}, nil
}

// NewWriterEmitter creates an Emitter over w. Close does not close w.
func NewWriterEmitter(w io.Writer) *Emitter {
	return &Emitter{enc: json.NewEncoder(w), now: time.Now}
}

// Emit writes a single event. A zero Timestamp is filled in from the clock.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Record is Emit for callers that only have a kind, a category and data.
func (e *Emitter) Record(kind, category string, data any) error {
	return e.Emit(Event{Kind: kind, Category: category, Data: data})
}

// Close closes the underlying file, if the emitter owns one. Calling Close
// on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil || e.closer == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.closer.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
