// Package control exposes a dashboard session to remote clients. Every
// call is funneled through a Dispatcher goroutine that owns the session,
// so intents are applied one at a time in arrival order.
package control

import (
	"context"
	"errors"

	"github.com/papapumpkin/qadash/internal/session"
)

// ErrDispatcherStopped is returned when a call arrives after the
// dispatcher's Run loop has exited.
var ErrDispatcherStopped = errors.New("dispatcher stopped")

type call struct {
	fn   func(*session.Session) error
	errc chan error
}

// Dispatcher serializes access to a session.
type Dispatcher struct {
	sess  *session.Session
	calls chan call
	done  chan struct{}
}

// NewDispatcher returns a dispatcher for sess. Nothing runs until Run is
// called.
func NewDispatcher(sess *session.Session) *Dispatcher {
	return &Dispatcher{
		sess:  sess,
		calls: make(chan call),
		done:  make(chan struct{}),
	}
}

// Run applies calls until ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-d.calls:
			c.errc <- c.fn(d.sess)
		}
	}
}

// Do runs fn on the dispatcher goroutine and returns its error. It gives
// up when ctx is canceled or the dispatcher has stopped.
func (d *Dispatcher) Do(ctx context.Context, fn func(*session.Session) error) error {
	c := call{fn: fn, errc: make(chan error, 1)}
	select {
	case d.calls <- c:
	case <-d.done:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
