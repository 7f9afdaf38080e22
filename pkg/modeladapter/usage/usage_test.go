package usage_test

import (
	"sync"
	"testing"

	"github.com/germanamz/aiui/pkg/modeladapter/usage"
	"github.com/stretchr/testify/assert"
)

func TestStats_Total(t *testing.T) {
	s := usage.Stats{InputTokens: 100, OutputTokens: 50}
	assert.Equal(t, 150, s.Total())
	assert.Equal(t, 0, usage.Stats{}.Total())
}

func TestStats_Plus(t *testing.T) {
	a := usage.Stats{InputTokens: 1, OutputTokens: 2}
	b := usage.Stats{InputTokens: 10, OutputTokens: 20}

	assert.Equal(t, usage.Stats{InputTokens: 11, OutputTokens: 22}, a.Plus(b))
}

func TestTracker_LastAndTotal(t *testing.T) {
	var tr usage.Tracker

	_, ok := tr.Last()
	assert.False(t, ok)

	tr.Add(usage.Stats{InputTokens: 10, OutputTokens: 5})
	tr.Add(usage.Stats{InputTokens: 20, OutputTokens: 10})

	last, ok := tr.Last()
	assert.True(t, ok)
	assert.Equal(t, usage.Stats{InputTokens: 20, OutputTokens: 10}, last)
	assert.Equal(t, usage.Stats{InputTokens: 30, OutputTokens: 15}, tr.Total())
	assert.Equal(t, 2, tr.Count())
}

func TestTracker_Concurrent_Add(t *testing.T) {
	var tr usage.Tracker

	const goroutines = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			tr.Add(usage.Stats{InputTokens: 1, OutputTokens: 1})
		}()
	}

	wg.Wait()

	assert.Equal(t, goroutines, tr.Count())
	assert.Equal(t, usage.Stats{InputTokens: goroutines, OutputTokens: goroutines}, tr.Total())
}
