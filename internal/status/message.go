// Package status carries user-facing notifications from the engine to the
// render path. Messages are pushed onto a Queue, drained most-recent-first
// on every render, and shown on a Board until their duration runs out.
package status

import (
	"time"
)

// Severity orders messages by urgency.
type Severity int

const (
	// SeverityInfo is a neutral notice.
	SeverityInfo Severity = iota
	// SeveritySuccess confirms a completed action.
	SeveritySuccess
	// SeverityWarning flags a degraded but recoverable outcome.
	SeverityWarning
	// SeverityError reports a failed action.
	SeverityError
)

// Message display durations.
const (
	DefaultDuration = 5 * time.Second
	ErrorDuration   = 10 * time.Second
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Message is one notification.
type Message struct {
	ID       string
	Title    string
	Body     string
	Severity Severity
	Duration time.Duration
	Created  time.Time
}

// Expired reports whether the message has outlived its duration at now.
func (m Message) Expired(now time.Time) bool {
	return !now.Before(m.Created.Add(m.Duration))
}

// Info returns an informational message.
func Info(title, body string) Message {
	return Message{Title: title, Body: body, Severity: SeverityInfo}
}

// Success returns a success message.
func Success(title, body string) Message {
	return Message{Title: title, Body: body, Severity: SeveritySuccess}
}

// Warning returns a warning message.
func Warning(title, body string) Message {
	return Message{Title: title, Body: body, Severity: SeverityWarning}
}

// Error returns an error message.
func Error(title, body string) Message {
	return Message{Title: title, Body: body, Severity: SeverityError}
}

// FromError formats err as an error message naming the path it concerns.
// Error messages stay up for ErrorDuration.
func FromError(title, path string, err error) Message {
	cause := "<nil>"
	if err != nil {
		cause = err.Error()
	}
	return Message{
		Title:    title,
		Body:     "Path: " + path + "\nCause: " + cause,
		Severity: SeverityError,
		Duration: ErrorDuration,
	}
}

// WithDuration returns a copy of m shown for d.
func (m Message) WithDuration(d time.Duration) Message {
	m.Duration = d
	return m
}
