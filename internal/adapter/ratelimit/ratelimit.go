package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow allows at most max events per key within any window-long interval.
type SlidingWindow struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
	now    func() time.Time
	calls  int
}

// sweepEvery is how many Allow calls pass between removals of idle keys.
const sweepEvery = 1024

func NewSlidingWindow(window time.Duration, max int) *SlidingWindow {
	return &SlidingWindow{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records an event for key and reports whether it fits in the window.
// Rejected events are not recorded.
func (l *SlidingWindow) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(cutoff)
	}

	hits := dropBefore(l.hits[key], cutoff)
	if len(hits) >= l.max {
		l.hits[key] = hits
		return false
	}

	l.hits[key] = append(hits, now)
	return true
}

// Len is the number of tracked keys.
func (l *SlidingWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

func (l *SlidingWindow) sweep(cutoff time.Time) {
	for key, hits := range l.hits {
		hits = dropBefore(hits, cutoff)
		if len(hits) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = hits
	}
}

// dropBefore keeps hits at or after cutoff, a hit exactly one window old still counts.
func dropBefore(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && hits[i].Before(cutoff) {
		i++
	}
	return hits[i:]
}
