// Package speechsynth implements an Announcer backed by a text-to-speech
// Platform, modelling the engine quirks any real speech-synthesis backend
// needs worked around: a pending-speech timeout in case the platform never
// fires a start/error event, a short gap enforced between utterances, and a
// combined enable gate that cancels in-flight speech the instant any of its
// three inputs goes false.
//
// Modelled on playAudio/playAudioSequence in audio.go: a single
// in-flight "now playing" handle and a done signal the playback callback
// closes.
package speechsynth

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/egtechgeek/annunciator/alert"
	"github.com/egtechgeek/annunciator/announcer"
	"github.com/egtechgeek/annunciator/reactive"
)

type state int

const (
	stateIdle state = iota
	statePending
	stateSpeaking
	stateCancelling
)

const (
	// defaultPendingTimeout bounds how long Adapter waits for the
	// platform to report a speech object has started or errored before
	// giving up and completing anyway.
	defaultPendingTimeout = 5 * time.Second

	// defaultInterUtteranceGap is the quiet period enforced after one
	// utterance completes before the next is accepted, matched to most
	// platforms needing a moment to reset between speech objects.
	defaultInterUtteranceGap = 200 * time.Millisecond

	// defaultKeepAliveInterval is how long the adapter can sit idle
	// before it submits an empty utterance to keep the underlying engine
	// from idling out.
	defaultKeepAliveInterval = 7 * time.Second

	// defaultPauseResumeInterval is how often a pause/resume cycle is
	// forced on the platform while speaking, working around engines that
	// cut speech off after roughly 15s of continuous output.
	defaultPauseResumeInterval = 10 * time.Second
)

// Adapter is the speech-synthesis Announcer.
type Adapter struct {
	announcer.Completions

	mu                  sync.Mutex
	platform            Platform
	Collector           *alert.ResponseCollector
	state               state
	current             *alert.Utterance
	currentText         string
	hasSpoken           bool
	pendingElapsed      time.Duration
	pendingTimeout      time.Duration
	gapRemaining        time.Duration
	interGap            time.Duration
	keepAliveElapsed    time.Duration
	keepAliveInterval   time.Duration
	pauseResumeElapsed  time.Duration
	pauseResumeInterval time.Duration
	gateUnsub           reactive.Unsubscribe

	// Initialized gates Announce: most speech platforms require a user
	// gesture before the first utterance, so it starts true here (the
	// platforms this has shipped against don't impose that restriction)
	// and a caller fronting a gesture-gated platform sets it false until
	// the gesture fires.
	Initialized *reactive.Cell[bool]

	SpeechAllowed     *reactive.Cell[bool]
	Enabled           *reactive.Cell[bool]
	MainWindowEnabled *reactive.Cell[bool]
	combined          *reactive.Cell[bool]
	combinedUnsub     reactive.Unsubscribe
}

// Option configures a new Adapter.
type Option func(*Adapter)

// WithPendingTimeout overrides the default 5s pending-speech timeout.
func WithPendingTimeout(d time.Duration) Option {
	return func(sa *Adapter) { sa.pendingTimeout = d }
}

// WithInterUtteranceGap overrides the default 200ms inter-utterance gap.
func WithInterUtteranceGap(d time.Duration) Option {
	return func(sa *Adapter) { sa.interGap = d }
}

// WithKeepAliveInterval overrides the default 7s engine-wake interval.
func WithKeepAliveInterval(d time.Duration) Option {
	return func(sa *Adapter) { sa.keepAliveInterval = d }
}

// WithPauseResumeInterval overrides the default 10s pause/resume interval.
func WithPauseResumeInterval(d time.Duration) Option {
	return func(sa *Adapter) { sa.pauseResumeInterval = d }
}

// NewAdapter builds an Adapter over platform with the default engine
// workaround timings, as overridden by opts.
func NewAdapter(platform Platform, opts ...Option) *Adapter {
	sa := &Adapter{
		platform:            platform,
		pendingTimeout:      defaultPendingTimeout,
		interGap:            defaultInterUtteranceGap,
		keepAliveInterval:   defaultKeepAliveInterval,
		pauseResumeInterval: defaultPauseResumeInterval,
		Initialized:         reactive.NewCell(true),
		SpeechAllowed:       reactive.NewCell(true),
		Enabled:             reactive.NewCell(true),
		MainWindowEnabled:   reactive.NewCell(true),
	}
	for _, opt := range opts {
		opt(sa)
	}
	sa.combined = reactive.Conjunction(sa.SpeechAllowed, sa.Enabled, sa.MainWindowEnabled)
	sa.combinedUnsub = sa.combined.Subscribe(func(newValue, oldValue bool) {
		if !newValue {
			sa.Cancel()
		}
	})
	return sa
}

// Close detaches the adapter's internal gate subscription.
func (sa *Adapter) Close() {
	if sa.combinedUnsub != nil {
		sa.combinedUnsub()
	}
}

// Announce resolves and sanitizes u's text and hands it to the platform. If
// another utterance is already in flight it is cancelled (emitting its own
// completion with empty text) first.
func (sa *Adapter) Announce(u *alert.Utterance, announcerOptions interface{}) {
	resolver := alert.NewResolver(sa.Collector, sa.RespectResponseCollectorProperties())
	text := sanitize(resolver.Resolve(u.Alert))

	if sa.platform == nil || !sa.Initialized.Value() {
		// Speech isn't available yet (no platform, or no user gesture has
		// fired). Synthesise the completion so the queue still makes
		// progress instead of stalling on this utterance.
		sa.Emit(u, text)
		return
	}

	sa.mu.Lock()
	if sa.state != stateIdle {
		prev := sa.current
		sa.state = stateIdle
		sa.current = nil
		prevUnsub := sa.gateUnsub
		sa.gateUnsub = nil
		sa.mu.Unlock()
		if prevUnsub != nil {
			prevUnsub()
		}
		sa.platform.Cancel()
		if prev != nil {
			sa.Emit(prev, "")
		}
		sa.mu.Lock()
	}
	sa.current = u
	sa.currentText = text
	sa.state = statePending
	sa.pendingElapsed = 0
	sa.mu.Unlock()

	opts := optionsOf(announcerOptions)
	sa.platform.Speak(Request{
		Text:    text,
		Voice:   opts.Voice,
		Pitch:   opts.Pitch,
		Rate:    opts.Rate,
		Volume:  opts.Volume,
		OnStart: func() { sa.onStart(u) },
		OnEnd:   func() { sa.onEnd(u) },
		OnError: func(err error) { sa.onEnd(u) },
	})
}

func (sa *Adapter) onStart(u *alert.Utterance) {
	sa.mu.Lock()
	if sa.current != u {
		sa.mu.Unlock()
		return
	}
	sa.state = stateSpeaking
	sa.hasSpoken = true
	sa.mu.Unlock()

	// Interrupt this utterance the same way an explicit cancel would if
	// its can-announce gate flips false while it's speaking.
	unsub := u.SubscribeGate(func(newValue, oldValue bool) {
		if !newValue {
			sa.CancelUtterance(u)
		}
	})
	sa.mu.Lock()
	if sa.current == u {
		sa.gateUnsub = unsub
		sa.mu.Unlock()
	} else {
		sa.mu.Unlock()
		unsub()
	}
}

func (sa *Adapter) onEnd(u *alert.Utterance) {
	sa.mu.Lock()
	if sa.current != u {
		sa.mu.Unlock()
		return
	}
	text := sa.currentText
	sa.state = stateIdle
	sa.current = nil
	sa.currentText = ""
	sa.gapRemaining = sa.interGap
	gateUnsub := sa.gateUnsub
	sa.gateUnsub = nil
	sa.mu.Unlock()
	if gateUnsub != nil {
		gateUnsub()
	}
	sa.Emit(u, text)
}

// Cancel stops whatever is currently announcing, if anything.
func (sa *Adapter) Cancel() {
	sa.mu.Lock()
	if sa.state == stateIdle {
		sa.mu.Unlock()
		return
	}
	u := sa.current
	sa.state = stateIdle
	sa.current = nil
	sa.currentText = ""
	sa.gapRemaining = sa.interGap
	gateUnsub := sa.gateUnsub
	sa.gateUnsub = nil
	sa.mu.Unlock()

	if gateUnsub != nil {
		gateUnsub()
	}
	sa.platform.Cancel()
	if u != nil {
		sa.Emit(u, "")
	}
}

// CancelUtterance cancels u if and only if it is the one currently
// announcing; otherwise it isn't in flight here and there is nothing to do.
func (sa *Adapter) CancelUtterance(u *alert.Utterance) {
	sa.mu.Lock()
	current := sa.current
	sa.mu.Unlock()
	if current == u {
		sa.Cancel()
	}
}

// ShouldUtteranceCancelOther uses the default priority-comparison rule.
func (sa *Adapter) ShouldUtteranceCancelOther(candidate, victim *alert.Utterance) bool {
	return announcer.DefaultShouldCancelOther(candidate, victim)
}

// OnUtterancePriorityChange cancels the current announcement if front now
// outranks it.
func (sa *Adapter) OnUtterancePriorityChange(front *alert.Utterance) {
	sa.mu.Lock()
	current := sa.current
	sa.mu.Unlock()
	if front == nil || current == nil || front == current {
		return
	}
	if sa.ShouldUtteranceCancelOther(front, current) {
		sa.Cancel()
	}
}

// Step advances the pending-speech timeout and the inter-utterance gap, and
// drives the two engine-health workarounds this adapter exists to carry:
// a keep-alive ping while idle, so the underlying engine doesn't idle out,
// and a periodic pause/resume cycle while speaking, so it doesn't cut
// speech off after its own internal timeout.
func (sa *Adapter) Step(dt time.Duration, view announcer.QueueView) {
	sa.mu.Lock()
	if sa.state == statePending {
		sa.pendingElapsed += dt
		if sa.pendingElapsed > sa.pendingTimeout {
			u := sa.current
			sa.state = stateIdle
			sa.current = nil
			sa.currentText = ""
			gateUnsub := sa.gateUnsub
			sa.gateUnsub = nil
			sa.mu.Unlock()
			if gateUnsub != nil {
				gateUnsub()
			}
			if u != nil {
				sa.Emit(u, "")
			}
			return
		}
	}
	if sa.gapRemaining > 0 {
		sa.gapRemaining -= dt
		if sa.gapRemaining < 0 {
			sa.gapRemaining = 0
		}
	}

	idle := sa.state == stateIdle
	speaking := sa.state == stateSpeaking

	if idle {
		sa.keepAliveElapsed += dt
	} else {
		sa.keepAliveElapsed = 0
	}
	firePing := idle && sa.keepAliveElapsed >= sa.keepAliveInterval
	if firePing {
		sa.keepAliveElapsed = 0
	}

	if speaking {
		sa.pauseResumeElapsed += dt
	} else {
		sa.pauseResumeElapsed = 0
	}
	firePauseResume := speaking && sa.pauseResumeElapsed >= sa.pauseResumeInterval
	if firePauseResume {
		sa.pauseResumeElapsed = 0
	}
	sa.mu.Unlock()

	if firePing {
		sa.platform.Speak(Request{Text: ""})
	}
	if firePauseResume {
		sa.platform.Pause()
		sa.platform.Resume()
	}
}

// ReadyToAnnounce reports whether the adapter is idle, past its
// inter-utterance gap, and its combined enable gate is open.
func (sa *Adapter) ReadyToAnnounce() bool {
	sa.mu.Lock()
	ready := sa.state == stateIdle && sa.gapRemaining <= 0
	sa.mu.Unlock()
	return ready && sa.combined.Value()
}

// HasSpoken latches true the first time the platform reports a speech
// object actually starting.
func (sa *Adapter) HasSpoken() bool {
	sa.mu.Lock()
	defer sa.mu.Unlock()
	return sa.hasSpoken
}

// AnnounceImmediatelyUntilSpeaking is true: most speech platforms require a
// user gesture before the first utterance, so callers should route
// addToBack through AnnounceImmediately until HasSpoken flips.
func (sa *Adapter) AnnounceImmediatelyUntilSpeaking() bool { return true }

// RespectResponseCollectorProperties defaults to true for speech synthesis.
func (sa *Adapter) RespectResponseCollectorProperties() bool { return true }

// Voices returns the platform's voice list, deduplicated by name and
// ordered with Google voices first and Fred last (the two ends of the
// quality spectrum on the platforms this has shipped against).
func (sa *Adapter) Voices() []Voice {
	raw := sa.platform.Voices()
	seen := make(map[string]bool, len(raw))
	out := make([]Voice, 0, len(raw))
	for _, v := range raw {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return voiceRank(out[i].Name) < voiceRank(out[j].Name)
	})
	return out
}

func voiceRank(name string) int {
	switch {
	case strings.Contains(name, "Google"):
		return 0
	case strings.Contains(name, "Fred"):
		return 2
	default:
		return 1
	}
}
