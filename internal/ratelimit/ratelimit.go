// Package ratelimit throttles summary generations per anonymous user.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether a key may perform another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// Memory implements a sliding-window limiter in process memory.
type Memory struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

// NewMemory creates an in-memory limiter and starts the background eviction goroutine.
func NewMemory(limit int, window time.Duration) *Memory {
	m := &Memory{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go m.evictLoop()
	return m
}

// Allow checks if a request is allowed for the given key.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	recent := m.fresh(m.requests[key], now)

	if len(recent) >= m.limit {
		m.requests[key] = recent
		return false, nil
	}

	m.requests[key] = append(recent, now)
	return true, nil
}

func (m *Memory) fresh(times []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-m.window)
	var recent []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

// evictLoop periodically removes expired keys so the map does not grow without bound.
func (m *Memory) evictLoop() {
	defer close(m.stopped)
	ticker := time.NewTicker(m.window)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.evict()
		}
	}
}

func (m *Memory) evict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, times := range m.requests {
		if recent := m.fresh(times, now); len(recent) == 0 {
			delete(m.requests, key)
		} else {
			m.requests[key] = recent
		}
	}
}

// Len returns the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Close stops the eviction goroutine.
func (m *Memory) Close() error {
	m.once.Do(func() {
		close(m.done)
		<-m.stopped
	})
	return nil
}
