package status

import "time"

// Board holds drained messages on the render side until each expires.
type Board struct {
	msgs []Message
}

// Add places drained messages on the board in the order given.
func (b *Board) Add(msgs ...Message) {
	b.msgs = append(b.msgs, msgs...)
}

// Active drops messages expired at now and returns the rest in display
// order.
func (b *Board) Active(now time.Time) []Message {
	kept := b.msgs[:0]
	for _, m := range b.msgs {
		if !m.Expired(now) {
			kept = append(kept, m)
		}
	}
	clear(b.msgs[len(kept):])
	b.msgs = kept
	return append([]Message(nil), kept...)
}

// Dismiss removes the message with id. It reports whether one was found.
func (b *Board) Dismiss(id string) bool {
	for i, m := range b.msgs {
		if m.ID == id {
			b.msgs = append(b.msgs[:i], b.msgs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of messages on the board, expired or not.
func (b *Board) Len() int {
	return len(b.msgs)
}
