package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestAcquire_MinInterval(t *testing.T) {
	l := New(100, 50*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	// Two 50ms gaps between three acquisitions.
	if elapsed < 100*time.Millisecond {
		t.Errorf("Expected at least 100ms for 3 acquisitions, took %v", elapsed)
	}
}

func TestAcquire_WindowCapAndReset(t *testing.T) {
	l := New(3, 0)
	l.windowSpan = 150 * time.Millisecond // shrink the rolling window
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("First 3 acquisitions should be immediate, took %v", elapsed)
	}
	if l.Pending() != 3 {
		t.Fatalf("Pending = %d, want 3", l.Pending())
	}

	// The 4th must wait out the oldest entry, then the window resets.
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("4th acquisition should have waited for the window, took %v", elapsed)
	}
	if l.Pending() != 1 {
		t.Errorf("Pending after conservative reset = %d, want 1", l.Pending())
	}
}

func TestAcquire_ContextCancellation(t *testing.T) {
	l := New(1, 0)
	l.windowSpan = time.Minute
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	if err == nil {
		t.Fatal("Expected context error while waiting for the window")
	}
	if err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
	// The aborted caller must not have recorded a request instant.
	if l.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", l.Pending())
	}
}

func TestAcquire_ConcurrentNeverExceedsCap(t *testing.T) {
	const limit = 5
	l := New(limit, 0)
	l.windowSpan = 200 * time.Millisecond
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < limit*2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(ctx); err != nil {
				t.Errorf("Acquire failed: %v", err)
			}
			if p := l.Pending(); p > limit {
				t.Errorf("Window holds %d entries, cap is %d", p, limit)
			}
		}()
	}
	wg.Wait()
}
