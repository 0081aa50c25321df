// Package announcer defines the Announcer abstraction the queue speaks to —
// the contract both AriaLiveAdapter and SpeechSynthAdapter implement.
package announcer

import (
	"sync"
	"time"

	"github.com/egtechgeek/annunciator/alert"
)

// QueueView is the read-only view of the queue an Announcer's Step may
// inspect.
type QueueView interface {
	Len() int
	// Front returns the first queued utterance, if any.
	Front() (*alert.Utterance, bool)
}

// Announcer is the abstract output adapter the queue drives.
type Announcer interface {
	// Announce hands an utterance to the adapter for output.
	Announce(u *alert.Utterance, announcerOptions interface{})

	// Cancel cancels whatever the adapter is currently announcing, if
	// anything.
	Cancel()

	// CancelUtterance cancels u specifically, whether pending or speaking.
	CancelUtterance(u *alert.Utterance)

	// ShouldUtteranceCancelOther decides whether candidate should cancel
	// victim.
	ShouldUtteranceCancelOther(candidate, victim *alert.Utterance) bool

	// OnUtterancePriorityChange notifies the adapter that the front of the
	// queue may have changed, so it can interrupt its current utterance if
	// policy demands it.
	OnUtterancePriorityChange(front *alert.Utterance)

	// Step gives the adapter a chance to perform per-tick maintenance, such
	// as engine-specific keep-alive or timeout workarounds.
	Step(dt time.Duration, view QueueView)

	// ReadyToAnnounce reports whether the adapter can currently accept a
	// new announce call.
	ReadyToAnnounce() bool

	// HasSpoken latches true once speech has ever actually succeeded.
	HasSpoken() bool

	// AnnounceImmediatelyUntilSpeaking declares that the adapter needs a
	// synchronous first-gesture speech, routing AddToBack through
	// AnnounceImmediately until HasSpoken flips.
	AnnounceImmediatelyUntilSpeaking() bool

	// RespectResponseCollectorProperties is threaded into the resolver.
	RespectResponseCollectorProperties() bool

	// OnCompletion subscribes to the completion event: emitted with the
	// utterance and its resolved text when an announcement is done. Multiple
	// queues may share one Announcer and must each filter on their own
	// announcing slot.
	OnCompletion(fn func(u *alert.Utterance, resolvedText string)) Unsubscribe
}

// Unsubscribe detaches a completion listener.
type Unsubscribe func()

// Completions is embeddable plumbing for the completion event every
// Announcer implementation emits. It is grounded on the same synchronous,
// mutex-guarded notification shape as reactive.Cell, kept separate because
// a completion is an event (no "current value"), not a value cell.
type Completions struct {
	mu        sync.Mutex
	listeners map[int]func(*alert.Utterance, string)
	nextID    int
}

// Subscribe registers fn to be called on every completion.
func (c *Completions) Subscribe(fn func(u *alert.Utterance, resolvedText string)) Unsubscribe {
	c.mu.Lock()
	if c.listeners == nil {
		c.listeners = make(map[int]func(*alert.Utterance, string))
	}
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

// OnCompletion is an alias for Subscribe, satisfying the Announcer
// interface's OnCompletion method for any type embedding Completions.
func (c *Completions) OnCompletion(fn func(u *alert.Utterance, resolvedText string)) Unsubscribe {
	return c.Subscribe(fn)
}

// Emit notifies every current listener that u completed with resolvedText.
func (c *Completions) Emit(u *alert.Utterance, resolvedText string) {
	c.mu.Lock()
	snapshot := make([]func(*alert.Utterance, string), 0, len(c.listeners))
	for _, fn := range c.listeners {
		snapshot = append(snapshot, fn)
	}
	c.mu.Unlock()

	for _, fn := range snapshot {
		fn(u, resolvedText)
	}
}

// DefaultShouldCancelOther implements the default should-cancel rule:
// priority(candidate) > priority(victim). AriaLiveAdapter uses this rule
// unmodified.
func DefaultShouldCancelOther(candidate, victim *alert.Utterance) bool {
	return candidate.GetPriority() > victim.GetPriority()
}
