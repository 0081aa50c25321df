package speechsynth

import (
	"testing"
	"time"

	"github.com/egtechgeek/annunciator/alert"
	"github.com/egtechgeek/annunciator/reactive"
)

type fakePlatform struct {
	speaking   bool
	lastReq    Request
	speakCount int
	cancelled  int
	paused     int
	resumed    int
	voices     []Voice
	autoFinish bool // if true, Speak immediately invokes OnStart then OnEnd
}

func (f *fakePlatform) Speak(req Request) {
	f.lastReq = req
	f.speakCount++
	f.speaking = true
	if f.autoFinish {
		if req.OnStart != nil {
			req.OnStart()
		}
		if req.OnEnd != nil {
			req.OnEnd()
		}
		f.speaking = false
	}
}
func (f *fakePlatform) Cancel()         { f.cancelled++; f.speaking = false }
func (f *fakePlatform) Pause()          { f.paused++ }
func (f *fakePlatform) Resume()         { f.resumed++ }
func (f *fakePlatform) Speaking() bool  { return f.speaking }
func (f *fakePlatform) Voices() []Voice { return f.voices }
func (f *fakePlatform) OnVoicesChanged(fn func()) func() {
	return func() {}
}

func TestAnnounceStartsPending(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	u := alert.New("hello")

	sa.Announce(u, nil)
	if sa.ReadyToAnnounce() {
		t.Fatalf("expected not ready while pending/speaking")
	}
	if p.lastReq.Text != "hello" {
		t.Fatalf("platform got text %q, want %q", p.lastReq.Text, "hello")
	}
}

func TestOnStartThenOnEndEmitsCompletion(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	u := alert.New("hello")

	var completedText string
	var completedCount int
	sa.OnCompletion(func(u *alert.Utterance, text string) {
		completedCount++
		completedText = text
	})

	sa.Announce(u, nil)
	if sa.HasSpoken() {
		t.Fatalf("HasSpoken should still be false before platform fires OnStart")
	}

	p.lastReq.OnStart()
	if !sa.HasSpoken() {
		t.Fatalf("HasSpoken should latch true once OnStart fires")
	}

	p.lastReq.OnEnd()
	if completedCount != 1 || completedText != "hello" {
		t.Fatalf("expected one completion with text 'hello', got count=%d text=%q", completedCount, completedText)
	}
	sa.Step(defaultInterUtteranceGap+time.Millisecond, nil)
	if !sa.ReadyToAnnounce() {
		t.Fatalf("expected ready once the inter-utterance gap has elapsed")
	}
}

func TestInterUtteranceGapBlocksImmediateReadiness(t *testing.T) {
	p := &fakePlatform{autoFinish: true}
	sa := NewAdapter(p)
	sa.Announce(alert.New("hi"), nil)

	if sa.ReadyToAnnounce() {
		t.Fatalf("expected not ready immediately after completion, gap should still be pending")
	}
	sa.Step(defaultInterUtteranceGap+time.Millisecond, nil)
	if !sa.ReadyToAnnounce() {
		t.Fatalf("expected ready once the gap has elapsed")
	}
}

func TestPendingTimeoutCompletesWithoutPlatformCallback(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	u := alert.New("stuck")

	var completed bool
	sa.OnCompletion(func(*alert.Utterance, string) { completed = true })

	sa.Announce(u, nil)
	sa.Step(defaultPendingTimeout+time.Millisecond, nil)

	if !completed {
		t.Fatalf("expected pending timeout to force completion")
	}
}

func TestCancelStopsCurrentAndEmitsEmptyCompletion(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	u := alert.New("cancel me")

	var gotText string
	var gotUtterance *alert.Utterance
	sa.OnCompletion(func(u *alert.Utterance, text string) {
		gotUtterance = u
		gotText = text
	})

	sa.Announce(u, nil)
	sa.Cancel()

	if p.cancelled != 1 {
		t.Fatalf("expected platform.Cancel to be called once")
	}
	if gotUtterance != u || gotText != "" {
		t.Fatalf("expected cancelled completion with empty text for u, got %v %q", gotUtterance, gotText)
	}
}

func TestCombinedGateFalseCancelsInFlight(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	u := alert.New("gated")
	sa.Announce(u, nil)

	sa.SpeechAllowed.Set(false)
	if p.cancelled != 1 {
		t.Fatalf("expected disabling speechAllowed to cancel the in-flight announcement")
	}
}

func TestOnUtterancePriorityChangeInterruptsLowerPriority(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	low := alert.New("low", alert.WithPriority(1))
	high := alert.New("high", alert.WithPriority(5))

	sa.Announce(low, nil)
	sa.OnUtterancePriorityChange(high)

	if p.cancelled != 1 {
		t.Fatalf("expected a higher-priority front utterance to interrupt the current one")
	}
}

func TestVoicesDedupAndOrder(t *testing.T) {
	p := &fakePlatform{voices: []Voice{
		{Name: "Samantha"},
		{Name: "Google US English"},
		{Name: "Fred"},
		{Name: "Samantha"},
	}}
	sa := NewAdapter(p)
	got := sa.Voices()
	if len(got) != 3 {
		t.Fatalf("expected duplicates removed, got %d voices", len(got))
	}
	if got[0].Name != "Google US English" {
		t.Errorf("expected Google voice first, got %q", got[0].Name)
	}
	if got[len(got)-1].Name != "Fred" {
		t.Errorf("expected Fred last, got %q", got[len(got)-1].Name)
	}
}

func TestAnnounceBeforeInitializationSynthesizesImmediateCompletion(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	sa.Initialized.Set(false)
	u := alert.New("hello")

	var completedText string
	var completedCount int
	sa.OnCompletion(func(u *alert.Utterance, text string) {
		completedCount++
		completedText = text
	})

	sa.Announce(u, nil)

	if p.speakCount != 0 {
		t.Fatalf("expected the platform never to be called before initialization, got %d Speak calls", p.speakCount)
	}
	if completedCount != 1 || completedText != "hello" {
		t.Fatalf("expected an immediate synthesised completion, got count=%d text=%q", completedCount, completedText)
	}

	sa.Initialized.Set(true)
	p2 := &fakePlatform{}
	sa2 := NewAdapter(p2)
	sa2.Announce(alert.New("world"), nil)
	if p2.speakCount != 1 {
		t.Fatalf("expected the platform to be used once initialized, got %d Speak calls", p2.speakCount)
	}
}

func TestGateGoingFalseInterruptsSpeakingUtterance(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	gate := reactive.NewCell(true)
	u := alert.New("gated", alert.WithCanAnnounceGate(gate))

	var gotText string
	sa.OnCompletion(func(*alert.Utterance, string) { gotText = "done" })

	sa.Announce(u, nil)
	p.lastReq.OnStart()

	gate.Set(false)

	if p.cancelled != 1 {
		t.Fatalf("expected the gate going false to cancel the speaking utterance")
	}
	if gotText != "done" {
		t.Fatalf("expected a completion once the gate interrupted the utterance")
	}
}

func TestGateSubscriptionDetachedOnNaturalEnd(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p)
	gate := reactive.NewCell(true)
	u := alert.New("gated", alert.WithCanAnnounceGate(gate))

	sa.Announce(u, nil)
	p.lastReq.OnStart()
	p.lastReq.OnEnd()

	gate.Set(false)
	if p.cancelled != 0 {
		t.Fatalf("expected no cancel once the utterance has already ended and its gate listener detached")
	}
}

func TestStepSendsKeepAlivePingWhileIdle(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p, WithKeepAliveInterval(5*time.Second))

	sa.Step(4*time.Second, nil)
	if p.speakCount != 0 {
		t.Fatalf("expected no keep-alive ping before the interval elapses, got %d", p.speakCount)
	}

	sa.Step(2*time.Second, nil)
	if p.speakCount != 1 {
		t.Fatalf("expected one keep-alive ping once idle past the interval, got %d", p.speakCount)
	}
	if p.lastReq.Text != "" {
		t.Fatalf("expected the keep-alive ping to carry empty text, got %q", p.lastReq.Text)
	}
}

func TestStepPausesAndResumesWhileSpeaking(t *testing.T) {
	p := &fakePlatform{}
	sa := NewAdapter(p, WithPauseResumeInterval(10*time.Second))
	sa.Announce(alert.New("long one"), nil)
	p.lastReq.OnStart()

	sa.Step(9*time.Second, nil)
	if p.paused != 0 || p.resumed != 0 {
		t.Fatalf("expected no pause/resume before the interval elapses, got paused=%d resumed=%d", p.paused, p.resumed)
	}

	sa.Step(2*time.Second, nil)
	if p.paused != 1 || p.resumed != 1 {
		t.Fatalf("expected one pause/resume cycle once speaking past the interval, got paused=%d resumed=%d", p.paused, p.resumed)
	}
}
