package status

import (
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/qadash/internal/observe"
)

// Queue is a LIFO stack of pending messages. It is not safe for concurrent
// use.
type Queue struct {
	msgs            []Message
	pushed          observe.Registry[Message]
	now             func() time.Time
	defaultDuration time.Duration
}

// NewQueue returns an empty queue using the wall clock and DefaultDuration.
func NewQueue() *Queue {
	return &Queue{now: time.Now, defaultDuration: DefaultDuration}
}

// SetClock replaces the clock used to stamp messages.
func (q *Queue) SetClock(now func() time.Time) {
	q.now = now
}

// SetDefaultDuration changes the duration given to messages pushed without
// one. Non-positive values are ignored.
func (q *Queue) SetDefaultDuration(d time.Duration) {
	if d > 0 {
		q.defaultDuration = d
	}
}

// Push stamps m with an ID, a creation time and, when unset, the default
// duration, then stacks it and notifies subscribers. It returns the stamped
// message.
func (q *Queue) Push(m Message) Message {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Duration <= 0 {
		m.Duration = q.defaultDuration
	}
	if m.Created.IsZero() {
		m.Created = q.now()
	}
	q.msgs = append(q.msgs, m)
	q.pushed.Notify(m)
	return m
}

// DrainAll pops every pending message, most recent first, and leaves the
// queue empty. Drained messages are never returned again.
func (q *Queue) DrainAll() []Message {
	if len(q.msgs) == 0 {
		return nil
	}
	out := make([]Message, 0, len(q.msgs))
	for i := len(q.msgs) - 1; i >= 0; i-- {
		out = append(out, q.msgs[i])
	}
	q.msgs = nil
	return out
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	return len(q.msgs)
}

// Subscribe registers fn to run after every push.
func (q *Queue) Subscribe(fn func(Message)) (unsubscribe func()) {
	return q.pushed.Subscribe(fn)
}
