package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSlidingWindow_Allow(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewSlidingWindow(time.Minute, 3)
	l.now = c.now

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d", i)
		c.advance(10 * time.Second)
	}
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "keys are independent")

	// first hit was at 12:00:00, it leaves the window after 12:01:00
	c.t = time.Date(2024, 1, 1, 12, 1, 0, 0, time.UTC)
	assert.False(t, l.Allow("1.2.3.4"))
	c.advance(time.Millisecond)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestSlidingWindow_RejectedNotCounted(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewSlidingWindow(time.Minute, 1)
	l.now = c.now

	assert.True(t, l.Allow("k"))
	for i := 0; i < 10; i++ {
		c.advance(time.Second)
		assert.False(t, l.Allow("k"))
	}
	c.advance(51 * time.Second)
	assert.True(t, l.Allow("k"))
}

func TestSlidingWindow_EvictsIdleKeys(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewSlidingWindow(time.Minute, 5)
	l.now = c.now

	for i := 0; i < sweepEvery-1; i++ {
		l.Allow(fmt.Sprintf("client-%d", i))
	}
	assert.Equal(t, sweepEvery-1, l.Len())

	c.advance(2 * time.Minute)
	l.Allow("fresh")
	assert.Equal(t, 1, l.Len())
}

func TestSlidingWindow_Concurrent(t *testing.T) {
	l := NewSlidingWindow(time.Hour, 5)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("same") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
}

func TestDropBefore(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	hits := []time.Time{base, base.Add(time.Second), base.Add(2 * time.Second)}

	tests := []struct {
		name   string
		cutoff time.Time
		expLen int
	}{
		{name: "cutoff before all", cutoff: base.Add(-time.Second), expLen: 3},
		{name: "cutoff on first hit", cutoff: base, expLen: 3},
		{name: "cutoff just after first hit", cutoff: base.Add(time.Millisecond), expLen: 2},
		{name: "cutoff after all", cutoff: base.Add(time.Minute), expLen: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Len(t, dropBefore(hits, test.cutoff), test.expLen)
		})
	}
}
