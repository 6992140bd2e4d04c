package heal

import (
	"sync"
	"time"
)

// Reasons recorded on HealedEntry.
const (
	ReasonSelector     = "found via selector"
	ReasonTextFallback = "found via text fallback"
	ReasonHeuristics   = "found via heuristics"
	ReasonNotFound     = "not found"
)

// HealedEntry records one resolution attempt.
type HealedEntry struct {
	Key            string    `json:"key,omitempty"`
	UsedSelector   string    `json:"usedSelector"`
	TriedSelectors []string  `json:"triedSelectors"`
	Reason         string    `json:"reason"`
	Time           time.Time `json:"time"`
}

// Found reports whether the attempt produced an element.
func (e HealedEntry) Found() bool {
	return e.UsedSelector != ""
}

// Healed reports whether the element was found through anything other than
// the first primary candidate.
func (e HealedEntry) Healed() bool {
	if !e.Found() {
		return false
	}
	return e.Reason != ReasonSelector || len(e.TriedSelectors) > 1
}

// Ledger is an append-only, chronologically ordered list of entries.
type Ledger struct {
	mu      sync.RWMutex
	entries []HealedEntry
}

func (l *Ledger) append(e HealedEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Entries returns a deep copy of the recorded entries.
func (l *Ledger) Entries() []HealedEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]HealedEntry, len(l.entries))
	for i, e := range l.entries {
		e.TriedSelectors = cloneStrings(e.TriedSelectors)
		out[i] = e
	}
	return out
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
