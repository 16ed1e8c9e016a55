// Package ratelimit implements fixed-window request counting per caller key.
package ratelimit

import (
	"sync"
	"time"
)

// Window is the fixed counting window applied to every caller key.
const Window = 60 * time.Second

// Info describes the outcome of a limiter check.
type Info struct {
	Limited      bool
	CurrentCount int
	Limit        int
	Remaining    int
	// ResetTime is the start of the current window; counts reset one Window
	// after it.
	ResetTime time.Time
}

// Store is the counting backend. The in-memory implementation is adequate
// for a single process only; horizontal scaling requires a backend with
// cross-process atomic counters behind this same interface.
type Store interface {
	// Take applies fixed-window accounting for key against ceiling and
	// reports the outcome. The read-modify-write of a window is atomic with
	// respect to concurrent callers of the same key.
	Take(key string, ceiling int, now time.Time) Info
}

// Limiter checks callers against a plan-derived ceiling. It never blocks or
// sleeps; the caller decides whether to reject or queue.
type Limiter struct {
	store Store
	now   func() time.Time
}

// New returns a Limiter backed by the given store.
func New(store Store) *Limiter {
	return &Limiter{store: store, now: time.Now}
}

// NewMemory returns a Limiter backed by an in-memory store.
func NewMemory() *Limiter {
	return New(NewMemoryStore())
}

// Check reports whether key has exceeded ceiling within the current window.
// When not limited the count is incremented; when limited the count is left
// untouched.
func (l *Limiter) Check(key string, ceiling int) Info {
	return l.store.Take(key, ceiling, l.now())
}

type window struct {
	start time.Time
	count int
}

// MemoryStore is a process-local Store guarded by a single mutex.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window)}
}

// Take implements Store.
func (s *MemoryStore) Take(key string, ceiling int, now time.Time) Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= Window {
		w = &window{start: now}
		s.windows[key] = w
	}

	if w.count >= ceiling {
		return Info{
			Limited:      true,
			CurrentCount: w.count,
			Limit:        ceiling,
			ResetTime:    w.start,
		}
	}

	w.count++
	return Info{
		CurrentCount: w.count,
		Limit:        ceiling,
		Remaining:    ceiling - w.count,
		ResetTime:    w.start,
	}
}
