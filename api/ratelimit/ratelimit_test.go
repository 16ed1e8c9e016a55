package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// limiter with a controllable clock
func newTestLimiter(start time.Time) (*Limiter, *time.Time) {
	now := start
	l := New(NewMemoryStore())
	l.now = func() time.Time { return now }
	return l, &now
}

func TestCheck_AllowsExactlyCeilingPerWindow(t *testing.T) {
	l, _ := newTestLimiter(time.Unix(1000, 0))

	const ceiling = 5
	for i := 1; i <= ceiling; i++ {
		info := l.Check("key-a", ceiling)
		assert.False(t, info.Limited, "call %d should pass", i)
		assert.Equal(t, i, info.CurrentCount)
		assert.Equal(t, ceiling-i, info.Remaining)
	}

	info := l.Check("key-a", ceiling)
	assert.True(t, info.Limited)
	assert.Equal(t, ceiling, info.CurrentCount, "limited call must not increment")
	assert.Equal(t, ceiling, info.Limit)
}

func TestCheck_WindowElapseResetsCount(t *testing.T) {
	l, now := newTestLimiter(time.Unix(1000, 0))

	for i := 0; i < 3; i++ {
		l.Check("key-b", 2)
	}
	assert.True(t, l.Check("key-b", 2).Limited)

	*now = now.Add(Window)
	info := l.Check("key-b", 2)
	assert.False(t, info.Limited)
	assert.Equal(t, 1, info.CurrentCount, "post-reset call behaves as call #1")
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Unix(1000, 0))

	assert.True(t, l.Check("busy", 1).Limited == false)
	assert.True(t, l.Check("busy", 1).Limited)
	assert.False(t, l.Check("idle", 1).Limited, "other keys keep their own windows")
}

func TestCheck_ResetTimeIsWindowStart(t *testing.T) {
	start := time.Unix(2000, 0)
	l, now := newTestLimiter(start)

	info := l.Check("key-c", 10)
	assert.Equal(t, start, info.ResetTime)

	*now = start.Add(30 * time.Second)
	info = l.Check("key-c", 10)
	assert.Equal(t, start, info.ResetTime, "reset time stays pinned within a window")
}

func TestMemoryStore_ConcurrentTakesLoseNoUpdates(t *testing.T) {
	store := NewMemoryStore()
	now := time.Unix(3000, 0)

	const goroutines = 50
	var wg sync.WaitGroup
	limited := make(chan bool, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limited <- store.Take("shared", 20, now).Limited
		}()
	}
	wg.Wait()
	close(limited)

	denied := 0
	for l := range limited {
		if l {
			denied++
		}
	}
	assert.Equal(t, goroutines-20, denied, "exactly ceiling requests pass")
}
