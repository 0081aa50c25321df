// Package reactive implements the tiny observable-cell primitive used
// throughout the queue for priority numbers and gate booleans.
package reactive

import "sync"

// Unsubscribe detaches a listener previously registered with Cell.Subscribe.
// Calling it more than once is a no-op.
type Unsubscribe func()

// Cell is a mutable value with synchronous change notification. Listener
// callbacks may re-enter the cell (read Value, Subscribe again, or even set
// a different cell) — Set finishes dispatching to a fixed snapshot of
// listeners taken at call time, so a listener that subscribes during
// dispatch is not itself invoked for the change that triggered it.
type Cell[T comparable] struct {
	mu        sync.Mutex
	value     T
	listeners map[int]func(newValue, oldValue T)
	nextID    int
}

// NewCell creates a Cell with the given initial value.
func NewCell[T comparable](initial T) *Cell[T] {
	return &Cell[T]{
		value:     initial,
		listeners: make(map[int]func(newValue, oldValue T)),
	}
}

// Value returns the current value.
func (c *Cell[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set updates the value and, if it changed, synchronously notifies every
// currently-subscribed listener with (newValue, oldValue).
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	old := c.value
	if old == v {
		c.mu.Unlock()
		return
	}
	c.value = v
	snapshot := make([]func(T, T), 0, len(c.listeners))
	for _, fn := range c.listeners {
		snapshot = append(snapshot, fn)
	}
	c.mu.Unlock()

	for _, fn := range snapshot {
		fn(v, old)
	}
}

// Subscribe registers fn to be called whenever the value changes. The
// returned Unsubscribe detaches fn; it is safe to call from inside fn.
func (c *Cell[T]) Subscribe(fn func(newValue, oldValue T)) Unsubscribe {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// ListenerCount reports how many listeners are currently subscribed; used
// by tests asserting a queue entry carries exactly one priority
// subscription.
func (c *Cell[T]) ListenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

// Conjunction returns a *Cell[bool] that tracks the logical AND of the
// current values of cells, re-evaluating whenever any of them changes. It
// backs an Utterance's canAnnounce gate: the conjunction of whatever gate
// cells were registered.
func Conjunction(cells ...*Cell[bool]) *Cell[bool] {
	eval := func() bool {
		for _, c := range cells {
			if !c.Value() {
				return false
			}
		}
		return true
	}

	out := NewCell(eval())
	for _, c := range cells {
		c.Subscribe(func(_, _ bool) {
			out.Set(eval())
		})
	}
	return out
}
