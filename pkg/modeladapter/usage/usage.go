// Package usage accounts for the input and output units a backend reports
// for each exchange.
package usage

import "sync"

// Stats holds the input and output token counts of a single exchange.
type Stats struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the sum of input and output tokens.
func (s Stats) Total() int {
	return s.InputTokens + s.OutputTokens
}

// Plus returns the field-wise sum of s and o.
func (s Stats) Plus(o Stats) Stats {
	return Stats{
		InputTokens:  s.InputTokens + o.InputTokens,
		OutputTokens: s.OutputTokens + o.OutputTokens,
	}
}

// Tracker records the Stats of every exchange made through one backend.
// It is safe for concurrent use. Nothing is persisted across processes.
type Tracker struct {
	mu      sync.Mutex
	entries []Stats
}

// Add records the stats of one exchange.
func (t *Tracker) Add(s Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, s)
}

// Last returns the most recent entry.
// The bool is false when the tracker has no entries.
func (t *Tracker) Last() (Stats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == 0 {
		return Stats{}, false
	}

	return t.entries[len(t.entries)-1], true
}

// Total returns the aggregate across all entries.
func (t *Tracker) Total() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total Stats
	for _, e := range t.entries {
		total = total.Plus(e)
	}

	return total
}

// Count returns the number of recorded entries.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
