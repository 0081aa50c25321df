// Package alert holds the alert-content carrier (Utterance), the
// polymorphic Alertable union, and the pure text-resolution logic that
// turns any Alertable into the string an Announcer actually speaks.
package alert

import (
	"math"
	"time"

	"github.com/egtechgeek/annunciator/reactive"
)

// NoMaxDelay marks an Utterance.AlertMaximumDelay as unbounded. It
// deliberately is NOT zero, since a zero maximum delay is itself a
// meaningful boundary: an utterance with AlertMaximumDelay = 0 is eligible
// on the very next tick regardless of stability churn.
const NoMaxDelay = time.Duration(math.MaxInt64)

// DefaultStableDelay is the default alertStableDelay.
const DefaultStableDelay = 200 * time.Millisecond

// Alertable is any value the resolver knows how to turn into text. It is
// modelled as an untyped union rather than an interface with methods, so
// Resolver.Resolve can perform a single exhaustive match instead of relying
// on subtype dispatch. Valid dynamic types are:
//
//	nil
//	string
//	int, int64, float64 (or anything accepted by formatNumber)
//	func() Alertable
//	ResponsePacket
//	*Utterance
type Alertable = interface{}

// Utterance is the carrier of a single alert. Identity is by pointer: two
// Utterances with identical fields are still distinct queue occupants.
type Utterance struct {
	// Alert is the Alertable this utterance ultimately resolves to.
	Alert Alertable

	// Predicate gates announcement; re-evaluated at announce time. A nil
	// Predicate always passes.
	Predicate func() bool

	// AlertStableDelay is the minimum time this utterance must sit
	// unchanged at its queue slot before it becomes eligible.
	AlertStableDelay time.Duration

	// AlertMaximumDelay is the hard ceiling after which stability is
	// waived. Use NoMaxDelay for "no ceiling".
	AlertMaximumDelay time.Duration

	// AnnouncerOptions is an opaque bag interpreted by whichever Announcer
	// ends up speaking this utterance, e.g. a speechsynth.Options or an
	// arialive.Options value.
	AnnouncerOptions interface{}

	priority  *reactive.Cell[float64]
	gateCells []*reactive.Cell[bool]
	gate      *reactive.Cell[bool]
}

// Option configures a new Utterance.
type Option func(*Utterance)

// WithPredicate sets the gating predicate.
func WithPredicate(p func() bool) Option {
	return func(u *Utterance) { u.Predicate = p }
}

// WithStableDelay overrides the default 200ms stable delay.
func WithStableDelay(d time.Duration) Option {
	return func(u *Utterance) { u.AlertStableDelay = d }
}

// WithMaximumDelay sets the hard ceiling on queue residence.
func WithMaximumDelay(d time.Duration) Option {
	return func(u *Utterance) { u.AlertMaximumDelay = d }
}

// WithPriority sets the utterance's initial priority.
func WithPriority(p float64) Option {
	return func(u *Utterance) { u.priority.Set(p) }
}

// WithAnnouncerOptions attaches an announcer-specific option bag.
func WithAnnouncerOptions(opts interface{}) Option {
	return func(u *Utterance) { u.AnnouncerOptions = opts }
}

// WithCanAnnounceGate registers one or more boolean observables whose
// conjunction becomes a second, independent announce-time gate.
func WithCanAnnounceGate(cells ...*reactive.Cell[bool]) Option {
	return func(u *Utterance) {
		u.gateCells = append(u.gateCells, cells...)
		u.gate = reactive.Conjunction(u.gateCells...)
	}
}

// New creates an Utterance wrapping alertable, applying opts in order.
func New(alertable Alertable, opts ...Option) *Utterance {
	u := &Utterance{
		Alert:             alertable,
		AlertStableDelay:  DefaultStableDelay,
		AlertMaximumDelay: NoMaxDelay,
		priority:          reactive.NewCell(0.0),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Priority returns the observable priority cell.
func (u *Utterance) Priority() *reactive.Cell[float64] { return u.priority }

// SetPriority is shorthand for u.Priority().Set(p).
func (u *Utterance) SetPriority(p float64) { u.priority.Set(p) }

// GetPriority is shorthand for u.Priority().Value().
func (u *Utterance) GetPriority() float64 { return u.priority.Value() }

// CanAnnounce evaluates the predicate and, if any canAnnounce gates were
// registered, their conjunction. Both must pass; the gate conjunction is a
// second announce-time check independent of the predicate.
func (u *Utterance) CanAnnounce() bool {
	if u.Predicate != nil && !u.Predicate() {
		return false
	}
	if u.gate != nil && !u.gate.Value() {
		return false
	}
	return true
}

// SubscribeGate attaches a listener to the conjunction of canAnnounce
// gates. A transition to false while this utterance is currently being
// announced is an interrupt signal an Announcer can act on. Returns a
// no-op Unsubscribe if no gates were registered.
func (u *Utterance) SubscribeGate(fn func(newValue, oldValue bool)) reactive.Unsubscribe {
	if u.gate == nil {
		return func() {}
	}
	return u.gate.Subscribe(fn)
}
