package dispatch

import (
	"testing"

	"github.com/egtechgeek/annunciator/reactive"
)

type boolSetterSpy struct {
	values []bool
}

func (s *boolSetterSpy) SetMuted(v bool)   { s.values = append(s.values, v) }
func (s *boolSetterSpy) SetEnabled(v bool) { s.values = append(s.values, v) }

func TestWireMutedAppliesCurrentValueImmediately(t *testing.T) {
	cell := reactive.NewCell(true)
	spy := &boolSetterSpy{}

	WireMuted(spy, cell)

	if len(spy.values) != 1 || spy.values[0] != true {
		t.Fatalf("expected immediate application of the current value, got %v", spy.values)
	}
}

func TestWireMutedTracksSubsequentChanges(t *testing.T) {
	cell := reactive.NewCell(false)
	spy := &boolSetterSpy{}
	WireMuted(spy, cell)

	cell.Set(true)
	cell.Set(false)

	want := []bool{false, true, false}
	if len(spy.values) != len(want) {
		t.Fatalf("values = %v, want %v", spy.values, want)
	}
	for i := range want {
		if spy.values[i] != want[i] {
			t.Fatalf("values = %v, want %v", spy.values, want)
		}
	}
}

func TestWireMutedUnsubscribeStopsTracking(t *testing.T) {
	cell := reactive.NewCell(false)
	spy := &boolSetterSpy{}
	unsub := WireMuted(spy, cell)
	unsub()

	cell.Set(true)
	if len(spy.values) != 1 {
		t.Fatalf("expected no further updates after unsubscribe, got %v", spy.values)
	}
}

func TestWireEnabledAppliesCurrentValueImmediately(t *testing.T) {
	cell := reactive.NewCell(false)
	spy := &boolSetterSpy{}

	WireEnabled(spy, cell)

	if len(spy.values) != 1 || spy.values[0] != false {
		t.Fatalf("expected immediate application of the current value, got %v", spy.values)
	}
}
