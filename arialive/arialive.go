// Package arialive implements an Announcer that writes resolved text into a
// small rotating set of live-region nodes and completes synchronously in
// the same call — the lightweight, instant-completion output adapter.
//
// The boundary-abstraction style here follows audio_devices.go's
// getAudioDevices, which dispatches to a small platform-specific backend
// behind a narrow interface; here the "platform" is a Node that
// knows how to hold text, so the same adapter works against a real DOM live
// region or, as shipped, an in-memory stand-in used by tests.
package arialive

import (
	"sync"
	"time"

	"github.com/egtechgeek/annunciator/alert"
	"github.com/egtechgeek/annunciator/announcer"
)

// nodesPerPoliteness is the size of each rotating live-region array.
const nodesPerPoliteness = 4

// Node is a single live-region element: anything that can have its text
// replaced.
type Node interface {
	SetText(text string) error
}

// InMemoryNode is the default Node: holds its last-set text in memory. Safe
// for concurrent use.
type InMemoryNode struct {
	mu   sync.Mutex
	text string
}

// SetText replaces the node's text.
func (n *InMemoryNode) SetText(text string) error {
	n.mu.Lock()
	n.text = text
	n.mu.Unlock()
	return nil
}

// Text returns the node's current text.
func (n *InMemoryNode) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// Options carries per-announcement aria-live settings via
// Utterance.AnnouncerOptions.
type Options struct {
	// Assertive routes the announcement to the assertive live-region
	// array instead of the polite one.
	Assertive bool
}

// Adapter is the aria-live Announcer. It completes every announcement
// synchronously: Announce resolves the text, writes it to the next node in
// rotation, and emits the completion event before returning.
type Adapter struct {
	announcer.Completions

	mu              sync.Mutex
	politeNodes     []Node
	assertiveNodes  []Node
	politeCursor    int
	assertiveCursor int

	Collector *alert.ResponseCollector
}

// NewAdapter builds an Adapter with the default-sized rotating node arrays,
// each filled with InMemoryNode instances.
func NewAdapter() *Adapter {
	a := &Adapter{
		politeNodes:    make([]Node, nodesPerPoliteness),
		assertiveNodes: make([]Node, nodesPerPoliteness),
	}
	for i := range a.politeNodes {
		a.politeNodes[i] = &InMemoryNode{}
	}
	for i := range a.assertiveNodes {
		a.assertiveNodes[i] = &InMemoryNode{}
	}
	return a
}

// SetNodes overrides the polite and/or assertive node arrays (e.g. to wire
// in real DOM nodes). A nil slice leaves that array untouched.
func (a *Adapter) SetNodes(polite, assertive []Node) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if polite != nil {
		a.politeNodes = polite
		a.politeCursor = 0
	}
	if assertive != nil {
		a.assertiveNodes = assertive
		a.assertiveCursor = 0
	}
}

func optionsOf(announcerOptions interface{}) Options {
	if o, ok := announcerOptions.(Options); ok {
		return o
	}
	return Options{}
}

// Announce resolves u's text, writes it into the next node in the chosen
// rotation, and emits the completion event synchronously.
func (a *Adapter) Announce(u *alert.Utterance, announcerOptions interface{}) {
	opts := optionsOf(announcerOptions)
	resolver := alert.NewResolver(a.Collector, a.RespectResponseCollectorProperties())
	text := resolver.Resolve(u.Alert)

	a.mu.Lock()
	var node Node
	if opts.Assertive && len(a.assertiveNodes) > 0 {
		node = a.assertiveNodes[a.assertiveCursor]
		a.assertiveCursor = (a.assertiveCursor + 1) % len(a.assertiveNodes)
	} else if len(a.politeNodes) > 0 {
		node = a.politeNodes[a.politeCursor]
		a.politeCursor = (a.politeCursor + 1) % len(a.politeNodes)
	}
	a.mu.Unlock()

	if node != nil {
		_ = node.SetText(text)
	}
	a.Emit(u, text)
}

// Cancel is a no-op: announcements complete synchronously, so nothing is
// ever in flight to cancel.
func (a *Adapter) Cancel() {}

// CancelUtterance is a no-op for the same reason as Cancel.
func (a *Adapter) CancelUtterance(u *alert.Utterance) {}

// ShouldUtteranceCancelOther uses the default priority-comparison rule.
func (a *Adapter) ShouldUtteranceCancelOther(candidate, victim *alert.Utterance) bool {
	return announcer.DefaultShouldCancelOther(candidate, victim)
}

// OnUtterancePriorityChange is a no-op: there is never an in-flight
// announcement to interrupt.
func (a *Adapter) OnUtterancePriorityChange(front *alert.Utterance) {}

// Step performs no per-tick maintenance.
func (a *Adapter) Step(dt time.Duration, view announcer.QueueView) {}

// ReadyToAnnounce is always true: a live-region write can always happen
// immediately.
func (a *Adapter) ReadyToAnnounce() bool { return true }

// HasSpoken is always true: there is no user-gesture gate for live regions.
func (a *Adapter) HasSpoken() bool { return true }

// AnnounceImmediatelyUntilSpeaking is always false: no gesture gating to
// route around.
func (a *Adapter) AnnounceImmediatelyUntilSpeaking() bool { return false }

// RespectResponseCollectorProperties defaults to false for aria-live.
func (a *Adapter) RespectResponseCollectorProperties() bool { return false }
