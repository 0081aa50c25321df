// Package queue implements the scheduling core: the priority queue of
// pending Utterances, the prioritisation sweep that runs whenever an
// utterance's priority changes, the tick loop that promotes stable or
// overdue entries, and the handoff to an Announcer.
//
// Modelled on AnnouncementQueue/AnnouncementManager in
// announcement_queue.go: a mutex-guarded slice acting as a priority queue,
// a periodic tick driving processNextAnnouncement, and a single "currently
// playing" slot distinct from the queued entries.
package queue

import (
	"sync"
	"time"

	"github.com/egtechgeek/annunciator/alert"
	"github.com/egtechgeek/annunciator/announcer"
	"github.com/egtechgeek/annunciator/reactive"
	"github.com/egtechgeek/annunciator/xlog"
)

type entry struct {
	utterance   *alert.Utterance
	timeInQueue time.Duration
	stableTime  time.Duration
	unsub       reactive.Unsubscribe
}

// UtteranceQueue is the scheduling core. It owns no output logic itself —
// everything audible or visible happens through the Announcer it was built
// with.
type UtteranceQueue struct {
	mu         sync.Mutex
	entries    []*entry
	enabled    bool
	muted      bool
	announcing *alert.Utterance
	announceUn reactive.Unsubscribe

	announcer  announcer.Announcer
	collector  *alert.ResponseCollector
	history    *History
	logger     xlog.Logger
	completeUn announcer.Unsubscribe
}

// Option configures a UtteranceQueue at construction.
type Option func(*UtteranceQueue)

// WithLogger overrides the default no-op logger.
func WithLogger(l xlog.Logger) Option {
	return func(q *UtteranceQueue) { q.logger = l }
}

// WithResponseCollector supplies the collector used to resolve
// alert.ResponsePacket alertables.
func WithResponseCollector(c *alert.ResponseCollector) Option {
	return func(q *UtteranceQueue) { q.collector = c }
}

// WithHistory turns on the bounded completion history, capped at max
// entries (off by default).
func WithHistory(max int) Option {
	return func(q *UtteranceQueue) { q.history = NewHistory(max) }
}

// New creates an UtteranceQueue driving a, enabled by default.
func New(a announcer.Announcer, opts ...Option) *UtteranceQueue {
	q := &UtteranceQueue{
		announcer: a,
		enabled:   true,
		logger:    xlog.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(q)
	}
	q.completeUn = a.OnCompletion(q.onCompletion)
	return q
}

// Len implements announcer.QueueView.
func (q *UtteranceQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Front implements announcer.QueueView.
func (q *UtteranceQueue) Front() (*alert.Utterance, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.frontLocked()
}

func (q *UtteranceQueue) frontLocked() (*alert.Utterance, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	return q.entries[0].utterance, true
}

// Enabled reports whether the queue currently accepts and processes
// entries.
func (q *UtteranceQueue) Enabled() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.enabled
}

// SetEnabled toggles whether the queue accepts new entries and ticks them
// forward. Disabling does not clear what is already queued.
func (q *UtteranceQueue) SetEnabled(v bool) {
	q.mu.Lock()
	q.enabled = v
	q.mu.Unlock()
}

// Muted reports whether attemptToAnnounce drops otherwise-eligible entries
// instead of handing them to the Announcer.
func (q *UtteranceQueue) Muted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.muted
}

// SetMuted toggles mute.
func (q *UtteranceQueue) SetMuted(v bool) {
	q.mu.Lock()
	q.muted = v
	q.mu.Unlock()
}

// Length returns the number of queued (not yet announcing) entries.
func (q *UtteranceQueue) Length() int { return q.Len() }

func wrapAlertable(a alert.Alertable) *alert.Utterance {
	if u, ok := a.(*alert.Utterance); ok {
		return u
	}
	return alert.New(a)
}

// removeEntryForUtteranceLocked detaches and removes any existing entry for
// u, returning the timeInQueue it had accumulated (zero if none existed).
// This is what makes adding an already-queued Utterance replace its prior
// entry rather than duplicate it.
func (q *UtteranceQueue) removeEntryForUtteranceLocked(u *alert.Utterance) time.Duration {
	for i, e := range q.entries {
		if e.utterance == u {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			e.unsub()
			return e.timeInQueue
		}
	}
	return 0
}

func (q *UtteranceQueue) indexOfUtteranceLocked(u *alert.Utterance) int {
	for i, e := range q.entries {
		if e.utterance == u {
			return i
		}
	}
	return -1
}

// AddToBack enqueues a, replacing any existing entry for the same Utterance.
// No-op while the queue is disabled. While the Announcer reports
// AnnounceImmediatelyUntilSpeaking and hasn't yet spoken (most speech
// platforms need a user gesture before their first utterance), this routes
// through AnnounceImmediately instead of queuing normally, so the opening
// announcement isn't left waiting behind a gesture that may never come.
func (q *UtteranceQueue) AddToBack(a alert.Alertable) *alert.Utterance {
	if !q.Enabled() {
		return nil
	}
	u := wrapAlertable(a)

	if q.announcer.AnnounceImmediatelyUntilSpeaking() && !q.announcer.HasSpoken() {
		return q.AnnounceImmediately(u)
	}

	q.mu.Lock()
	prevTime := q.removeEntryForUtteranceLocked(u)
	e := &entry{utterance: u, timeInQueue: prevTime}
	e.unsub = u.Priority().Subscribe(func(newValue, oldValue float64) { q.prioritize(u) })
	q.entries = append(q.entries, e)
	q.mu.Unlock()

	q.logger.Debug("addToBack", "priority", u.GetPriority())
	q.prioritize(u)
	return u
}

// AddToFront enqueues a at the head of the queue, bypassing prioritisation
// entirely — no priority subscription is attached, so a later priority
// change on this Utterance will not trigger a sweep. Deprecated: prefer
// AddToBack or AnnounceImmediately. Kept for parity with legacy callers that
// manage ordering themselves.
func (q *UtteranceQueue) AddToFront(a alert.Alertable) *alert.Utterance {
	if !q.Enabled() {
		return nil
	}
	u := wrapAlertable(a)

	q.mu.Lock()
	prevTime := q.removeEntryForUtteranceLocked(u)
	e := &entry{utterance: u, timeInQueue: prevTime, unsub: func() {}}
	q.entries = append([]*entry{e}, q.entries...)
	q.mu.Unlock()

	q.logger.Debug("addToFront", "priority", u.GetPriority())
	return u
}

// AnnounceImmediately enqueues a at the front and, if it survives a
// prioritisation sweep against the current front entry, attempts to
// announce it synchronously. An Utterance added this way that the entry
// behind it cancels (as decided by the Announcer's
// ShouldUtteranceCancelOther; under the default rule, only a strictly
// higher-priority neighbour) is dropped without announcing.
func (q *UtteranceQueue) AnnounceImmediately(a alert.Alertable) *alert.Utterance {
	if !q.Enabled() {
		return nil
	}
	u := wrapAlertable(a)

	q.mu.Lock()
	q.removeEntryForUtteranceLocked(u)
	e := &entry{
		utterance:   u,
		timeInQueue: noMaxDuration(),
		stableTime:  noMaxDuration(),
	}
	e.unsub = u.Priority().Subscribe(func(newValue, oldValue float64) { q.prioritize(u) })
	q.entries = append([]*entry{e}, q.entries...)
	q.mu.Unlock()

	q.prioritize(u)

	q.mu.Lock()
	idx := q.indexOfUtteranceLocked(u)
	var target *entry
	if idx >= 0 {
		target = q.entries[idx]
	}
	q.mu.Unlock()

	if target != nil {
		q.attemptToAnnounce(target)
	}
	return u
}

func noMaxDuration() time.Duration { return alert.NoMaxDelay }

// addSaturating adds d to v, clamping at alert.NoMaxDelay instead of
// overflowing — AnnounceImmediately seeds an entry's timers at NoMaxDelay so
// it is eligible on the very next tick, and an ordinary tick addition on top
// of that must not wrap around to a negative duration.
func addSaturating(v, d time.Duration) time.Duration {
	if v > alert.NoMaxDelay-d {
		return alert.NoMaxDelay
	}
	return v + d
}

// RemoveUtterance removes u's queued entry, if it has one. It is a no-op
// (with a debug assertion) when u is not currently queued.
func (q *UtteranceQueue) RemoveUtterance(u *alert.Utterance) {
	q.mu.Lock()
	idx := q.indexOfUtteranceLocked(u)
	var removed *entry
	if idx >= 0 {
		removed = q.entries[idx]
		q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	}
	q.mu.Unlock()

	if removed == nil {
		debugAssertUtteranceQueued()
		return
	}
	removed.unsub()
}

func (q *UtteranceQueue) removeIfPresent(u *alert.Utterance) {
	q.mu.Lock()
	idx := q.indexOfUtteranceLocked(u)
	var removed *entry
	if idx >= 0 {
		removed = q.entries[idx]
		q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	}
	q.mu.Unlock()
	if removed != nil {
		removed.unsub()
	}
}

// HasUtterance reports whether u currently has a queued entry.
func (q *UtteranceQueue) HasUtterance(u *alert.Utterance) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.indexOfUtteranceLocked(u) >= 0
}

// CancelUtterance asks the Announcer to cancel u, whether it is queued,
// announcing, or neither. Queue membership is untouched; the announcer's
// own completion/cancellation bookkeeping is responsible for follow-up.
func (q *UtteranceQueue) CancelUtterance(u *alert.Utterance) {
	q.announcer.CancelUtterance(u)
}

// Clear empties the queue without touching whatever is currently
// announcing.
func (q *UtteranceQueue) Clear() {
	q.mu.Lock()
	entries := q.entries
	q.entries = nil
	q.mu.Unlock()
	for _, e := range entries {
		e.unsub()
	}
}

// Cancel empties the queue and asks the Announcer to cancel whatever it is
// currently announcing.
func (q *UtteranceQueue) Cancel() {
	q.Clear()
	q.announcer.Cancel()
}

// prioritize runs the prioritisation sweep seeded by seed's priority. seed
// may or may not currently have a queued entry — when it does not (the
// common case being the utterance currently announcing), the sweep reduces
// to notifying the Announcer that the front of the queue may now outrank
// it.
func (q *UtteranceQueue) prioritize(seed *alert.Utterance) {
	q.mu.Lock()
	idx := q.indexOfUtteranceLocked(seed)
	if idx < 0 {
		front, ok := q.frontLocked()
		q.mu.Unlock()
		if ok {
			q.announcer.OnUtterancePriorityChange(front)
		}
		return
	}

	kept := make([]*entry, 0, idx)
	var cancelled []*entry
	for k := 0; k < idx; k++ {
		e := q.entries[k]
		if q.announcer.ShouldUtteranceCancelOther(seed, e.utterance) {
			cancelled = append(cancelled, e)
			continue
		}
		kept = append(kept, e)
	}
	rest := append([]*entry{}, q.entries[idx:]...)
	q.entries = append(kept, rest...)
	idx = len(kept)

	var seedCancelled *entry
	if idx+1 < len(q.entries) {
		behind := q.entries[idx+1]
		if q.announcer.ShouldUtteranceCancelOther(behind.utterance, seed) {
			seedCancelled = q.entries[idx]
			q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
		}
	}
	front, ok := q.frontLocked()
	q.mu.Unlock()

	for _, e := range cancelled {
		e.unsub()
		q.logger.Debug("prioritize: lower-priority entry cancelled")
	}
	if seedCancelled != nil {
		seedCancelled.unsub()
		q.logger.Debug("prioritize: seed cancelled by higher-priority successor")
	}
	if ok {
		q.announcer.OnUtterancePriorityChange(front)
	}
}

// Tick advances every queued entry's timers by dt, attempts to announce the
// first entry that has become stable or hit its maximum delay, and gives
// the Announcer a chance to run its own per-tick maintenance. No-op while
// disabled.
func (q *UtteranceQueue) Tick(dt time.Duration) {
	if !q.Enabled() {
		return
	}

	q.mu.Lock()
	for _, e := range q.entries {
		e.timeInQueue = addSaturating(e.timeInQueue, dt)
		e.stableTime = addSaturating(e.stableTime, dt)
	}
	var target *entry
	for _, e := range q.entries {
		if e.stableTime > e.utterance.AlertStableDelay || e.timeInQueue > e.utterance.AlertMaximumDelay {
			target = e
			break
		}
	}
	q.mu.Unlock()

	if target != nil {
		q.attemptToAnnounce(target)
	}
	q.announcer.Step(dt, q)
}

// attemptToAnnounce is the handoff for the first queued entry that has
// become eligible: if the Announcer isn't ready it is left alone
// for the next tick; if it is ready but muted, gated, or resolves to empty
// text it is dropped silently; otherwise it moves into the announcing slot
// and is handed to the Announcer.
func (q *UtteranceQueue) attemptToAnnounce(e *entry) {
	if !q.announcer.ReadyToAnnounce() {
		return
	}

	resolver := alert.NewResolver(q.collector, q.announcer.RespectResponseCollectorProperties())
	canAnnounce := e.utterance.CanAnnounce()
	text := resolver.Resolve(e.utterance.Alert)
	muted := q.Muted()

	if muted || !canAnnounce || text == "" {
		q.removeIfPresent(e.utterance)
		q.logger.Debug("attemptToAnnounce: dropped without announcing", "muted", muted, "canAnnounce", canAnnounce)
		return
	}

	q.mu.Lock()
	idx := q.indexOfUtteranceLocked(e.utterance)
	if idx >= 0 {
		q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	}
	q.announcing = e.utterance
	q.mu.Unlock()
	e.unsub()

	announceUn := e.utterance.Priority().Subscribe(func(newValue, oldValue float64) { q.prioritize(e.utterance) })
	q.mu.Lock()
	q.announceUn = announceUn
	q.mu.Unlock()

	q.logger.Debug("announcing", "text", text)
	q.announcer.Announce(e.utterance, e.utterance.AnnouncerOptions)

	// A synchronous Announce (or a completion it fires inline) may have
	// caused this Utterance to be re-enqueued by a listener; undo that.
	q.removeIfPresent(e.utterance)
}

// onCompletion handles the Announcer's completion event, ignoring any
// completion that doesn't match the currently announcing Utterance — this
// is what lets several queues share one Announcer safely.
func (q *UtteranceQueue) onCompletion(u *alert.Utterance, resolvedText string) {
	q.mu.Lock()
	if q.announcing != u {
		q.mu.Unlock()
		return
	}
	unsub := q.announceUn
	q.announcing = nil
	q.announceUn = nil
	q.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if q.history != nil {
		q.history.record(u, resolvedText, announceCompletionTime())
	}
	q.logger.Debug("completed", "text", resolvedText)
}

// Close detaches the queue's subscription to its Announcer's completion
// event. Call when the queue is being discarded but the Announcer lives on.
func (q *UtteranceQueue) Close() {
	if q.completeUn != nil {
		q.completeUn()
	}
}
