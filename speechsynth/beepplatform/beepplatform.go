// Package beepplatform is a concrete speechsynth.Platform running entirely
// locally over faiface/beep, with no external TTS engine: it renders each
// utterance as a fixed-pitch tone whose duration is scaled to the text's
// word count, so callers get a real, audible, correctly-timed Platform to
// exercise the adapter's state machine against in environments with no
// system speech engine available.
//
// Modelled on playAudio/playAudioSequence in audio.go: the same
// effects.Volume/speaker.Play(beep.Seq(..., beep.Callback)) pattern, with a
// done-on-Callback signal in place of a done channel. No resampling is
// done: the tone is generated at the speaker's own sample rate.
package beepplatform

import (
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"

	"github.com/egtechgeek/annunciator/speechsynth"
)

const (
	sampleRate     = beep.SampleRate(44100)
	toneFrequency  = 220.0
	wordsPerMinute = 180.0
	minDuration    = 300 * time.Millisecond
)

// Platform is a speechsynth.Platform backed by faiface/beep's speaker.
type Platform struct {
	mu          sync.Mutex
	initialized bool
	speaking    bool
	voices      []speechsynth.Voice
}

// New creates a Platform with a small static voice list standing in for
// whatever a real engine would enumerate.
func New() *Platform {
	return &Platform{
		voices: []speechsynth.Voice{
			{Name: "Google US English", Lang: "en-US"},
			{Name: "Google UK English Female", Lang: "en-GB"},
			{Name: "Samantha", Lang: "en-US"},
			{Name: "Fred", Lang: "en-US"},
		},
	}
}

func (p *Platform) ensureInit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

func durationFor(text string) time.Duration {
	words := float64(len(strings.Fields(text)))
	if words == 0 {
		return minDuration
	}
	d := time.Duration(words / wordsPerMinute * 60 * float64(time.Second))
	if d < minDuration {
		return minDuration
	}
	return d
}

// volumeToDecibels maps the adapter's linear 0..1 volume onto the
// logarithmic scale effects.Volume expects, with 1.0 mapping to unity gain.
func volumeToDecibels(v float64) float64 {
	switch {
	case v >= 1:
		return 0
	case v <= 0:
		return -10
	default:
		return (v - 1) * 5
	}
}

// Speak renders req.Text as a tone whose duration stands in for the time a
// real engine would take to say it.
func (p *Platform) Speak(req speechsynth.Request) {
	if err := p.ensureInit(); err != nil {
		if req.OnError != nil {
			req.OnError(err)
		}
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		if req.OnStart != nil {
			req.OnStart()
		}
		if req.OnEnd != nil {
			req.OnEnd()
		}
		return
	}

	tone, err := generators.SinTone(sampleRate, toneFrequency)
	if err != nil {
		if req.OnError != nil {
			req.OnError(err)
		}
		return
	}
	n := sampleRate.N(durationFor(req.Text))
	streamer := beep.Take(n, tone)
	volume := req.Volume
	if volume <= 0 {
		volume = 1
	}
	withVolume := &effects.Volume{Streamer: streamer, Base: 2, Volume: volumeToDecibels(volume)}

	p.mu.Lock()
	p.speaking = true
	p.mu.Unlock()

	if req.OnStart != nil {
		req.OnStart()
	}

	speaker.Play(beep.Seq(withVolume, beep.Callback(func() {
		p.mu.Lock()
		p.speaking = false
		p.mu.Unlock()
		if req.OnEnd != nil {
			req.OnEnd()
		}
	})))
}

// Cancel stops whatever tone is currently playing.
func (p *Platform) Cancel() {
	speaker.Clear()
	p.mu.Lock()
	p.speaking = false
	p.mu.Unlock()
}

// Pause is a no-op: beep's mixer has no native pause/resume of an
// in-progress streamer, only Clear.
func (p *Platform) Pause() {}

// Resume is a no-op for the same reason as Pause.
func (p *Platform) Resume() {}

// Speaking reports whether a tone is currently playing.
func (p *Platform) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// Voices returns the static voice list.
func (p *Platform) Voices() []speechsynth.Voice {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]speechsynth.Voice, len(p.voices))
	copy(out, p.voices)
	return out
}

// OnVoicesChanged never fires: the voice list here is static.
func (p *Platform) OnVoicesChanged(fn func()) func() {
	return func() {}
}
