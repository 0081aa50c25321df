package beepplatform

import (
	"testing"
	"time"
)

func TestDurationForScalesWithWordCount(t *testing.T) {
	short := durationFor("hi")
	long := durationFor("this is a much longer sentence with many more words in it")

	if long <= short {
		t.Fatalf("expected a longer text to produce a longer duration, got short=%v long=%v", short, long)
	}
}

func TestDurationForFloorsAtMinDuration(t *testing.T) {
	if got := durationFor(""); got != minDuration {
		t.Fatalf("durationFor(\"\") = %v, want floor of %v", got, minDuration)
	}
	if got := durationFor("hi"); got < minDuration {
		t.Fatalf("durationFor(\"hi\") = %v, want at least %v", got, minDuration)
	}
}

func TestVolumeToDecibelsBounds(t *testing.T) {
	if got := volumeToDecibels(1); got != 0 {
		t.Errorf("volumeToDecibels(1) = %v, want 0", got)
	}
	if got := volumeToDecibels(2); got != 0 {
		t.Errorf("volumeToDecibels(2) = %v, want 0 (clamped)", got)
	}
	if got := volumeToDecibels(0); got != -10 {
		t.Errorf("volumeToDecibels(0) = %v, want -10", got)
	}
	if got := volumeToDecibels(-1); got != -10 {
		t.Errorf("volumeToDecibels(-1) = %v, want -10 (clamped)", got)
	}
	if got := volumeToDecibels(0.5); got >= 0 || got <= -10 {
		t.Errorf("volumeToDecibels(0.5) = %v, want strictly between -10 and 0", got)
	}
}

func TestVoicesReturnsACopy(t *testing.T) {
	p := New()
	voices := p.Voices()
	voices[0].Name = "mutated"

	if p.Voices()[0].Name == "mutated" {
		t.Fatalf("expected Voices() to return a defensive copy")
	}
}

func TestNewIncludesStaticVoices(t *testing.T) {
	p := New()
	voices := p.Voices()
	if len(voices) == 0 {
		t.Fatalf("expected a non-empty static voice list")
	}
}

func TestOnVoicesChangedNeverFires(t *testing.T) {
	p := New()
	called := false
	unsub := p.OnVoicesChanged(func() { called = true })
	unsub()
	time.Sleep(time.Millisecond)
	if called {
		t.Fatalf("expected OnVoicesChanged never to fire for a static voice list")
	}
}
