// Package observe provides the explicit subscription registry the engine
// components use to notify dependents of state changes.
package observe

// Registry holds handlers for events of type T. Handlers run synchronously
// in registration order. A Registry is not safe for concurrent use; the
// engine runs on a single dispatch goroutine.
type Registry[T any] struct {
	nextID   int
	handlers []entry[T]
}

type entry[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (r *Registry[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	r.nextID++
	id := r.nextID
	r.handlers = append(r.handlers, entry[T]{id: id, fn: fn})
	return func() {
		for i, h := range r.handlers {
			if h.id == id {
				r.handlers = append(r.handlers[:i:i], r.handlers[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every registered handler with ev. Handlers added or removed
// during a notification take effect on the next one.
func (r *Registry[T]) Notify(ev T) {
	snapshot := r.handlers
	for _, h := range snapshot {
		h.fn(ev)
	}
}

// Len returns the number of registered handlers.
func (r *Registry[T]) Len() int {
	return len(r.handlers)
}
