// Package rotator runs a cancellable recurring task that cycles through a
// fixed list of values.
package rotator

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is how often the displayed value changes.
const DefaultInterval = 3 * time.Second

// Rotator cycles an index over n items every interval while running.
type Rotator struct {
	n        int
	interval time.Duration
	onTick   func(index int)

	mu      sync.Mutex
	index   int
	cancel  context.CancelFunc
	stopped chan struct{}
}

// New creates a rotator over n items. onTick is called from the rotator's
// goroutine with the new index after each step.
func New(n int, interval time.Duration, onTick func(index int)) *Rotator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Rotator{n: n, interval: interval, onTick: onTick}
}

// Start begins rotating. Calling Start on a running rotator is a no-op.
func (r *Rotator) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil || r.n == 0 {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.stopped = make(chan struct{})
	go r.run(ctx, r.stopped)
}

func (r *Rotator) run(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			r.index = (r.index + 1) % r.n
			idx := r.index
			r.mu.Unlock()
			if r.onTick != nil {
				r.onTick(idx)
			}
		}
	}
}

// Stop cancels the recurring task and waits for its goroutine to exit.
// It is safe to call Stop on a rotator that is not running.
func (r *Rotator) Stop() {
	r.mu.Lock()
	cancel, stopped := r.cancel, r.stopped
	r.cancel, r.stopped = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

// Running reports whether the task is active.
func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Index returns the current position.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}
