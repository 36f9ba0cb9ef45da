// Package ratelimit paces outbound requests toward one upstream source.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// defaultWindow is the rolling window the per-minute cap applies to.
const defaultWindow = 60 * time.Second

// Limiter enforces two limits for a single upstream source: a rolling-window
// request cap and a minimum gap between consecutive requests. It never
// rejects a caller, only delays it; the only error it can return is the
// caller's own context expiring while it waits.
//
// The window state is the only mutable state and is guarded by one mutex.
// The mutex is held across the suspension on purpose: two callers must not
// both observe "under limit" and jointly exceed the cap, so admission is
// strictly serialized in call order.
type Limiter struct {
	maxPerWindow int
	minInterval  time.Duration
	windowSpan   time.Duration

	mu     sync.Mutex
	window []time.Time
	last   time.Time
}

// New creates a Limiter allowing maxPerWindow requests per rolling 60s
// window, with at least minInterval between consecutive requests.
func New(maxPerWindow int, minInterval time.Duration) *Limiter {
	return &Limiter{
		maxPerWindow: maxPerWindow,
		minInterval:  minInterval,
		windowSpan:   defaultWindow,
	}
}

// Acquire blocks until issuing a request violates neither limit, then
// records the request instant. When the window cap is hit it waits out the
// oldest entry and clears the whole window — a conservative reset that
// trades a little throughput for simple, starvation-free behavior.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	// Evict entries that have left the rolling window.
	kept := l.window[:0]
	for _, t := range l.window {
		if now.Sub(t) < l.windowSpan {
			kept = append(kept, t)
		}
	}
	l.window = kept

	if len(l.window) >= l.maxPerWindow {
		wait := l.windowSpan - now.Sub(l.window[0])
		if wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
		l.window = l.window[:0]
	}

	if !l.last.IsZero() {
		if since := time.Since(l.last); since < l.minInterval {
			if err := sleep(ctx, l.minInterval-since); err != nil {
				return err
			}
		}
	}

	now = time.Now()
	l.window = append(l.window, now)
	l.last = now
	return nil
}

// Pending returns the number of request instants currently in the window.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.window)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
