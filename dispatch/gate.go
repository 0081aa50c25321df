package dispatch

import "github.com/egtechgeek/annunciator/reactive"

// MutedSetter is the queue surface WireMuted needs.
type MutedSetter interface {
	SetMuted(bool)
}

// EnabledSetter is the queue surface WireEnabled needs.
type EnabledSetter interface {
	SetEnabled(bool)
}

// WireMuted keeps q's muted flag in sync with cell, applying cell's current
// value immediately and on every subsequent change.
func WireMuted(q MutedSetter, cell *reactive.Cell[bool]) reactive.Unsubscribe {
	q.SetMuted(cell.Value())
	return cell.Subscribe(func(newValue, oldValue bool) { q.SetMuted(newValue) })
}

// WireEnabled keeps q's enabled flag in sync with cell, applying cell's
// current value immediately and on every subsequent change.
func WireEnabled(q EnabledSetter, cell *reactive.Cell[bool]) reactive.Unsubscribe {
	q.SetEnabled(cell.Value())
	return cell.Subscribe(func(newValue, oldValue bool) { q.SetEnabled(newValue) })
}
