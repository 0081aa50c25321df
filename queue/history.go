package queue

import (
	"sync"
	"time"

	"github.com/egtechgeek/annunciator/alert"
)

// HistoryEntry records one completed announcement.
type HistoryEntry struct {
	Utterance    *alert.Utterance
	ResolvedText string
	CompletedAt  time.Time
}

// History is a bounded ring buffer of completed announcements, off by
// default. Modelled on AnnouncementManager.history and its
// addToHistory/GetHistory trimming behaviour in announcement_queue.go.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
	max     int
}

// NewHistory creates a History capped at max entries. max <= 0 means
// unbounded.
func NewHistory(max int) *History {
	return &History{max: max}
}

func (h *History) record(u *alert.Utterance, text string, at time.Time) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, HistoryEntry{Utterance: u, ResolvedText: text, CompletedAt: at})
	if h.max > 0 && len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Entries returns a snapshot of the recorded history, oldest first.
func (h *History) Entries() []HistoryEntry {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}
