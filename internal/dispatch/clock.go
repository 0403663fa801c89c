package dispatch

import (
	"context"
	"sync"
	"time"
)

// Sleeper waits between two webhook calls.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on a timer and returns early when ctx ends.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RecordingClock returns immediately and keeps the requested durations.
type RecordingClock struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (c *RecordingClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.slept = append(c.slept, d)
	c.mu.Unlock()
	return ctx.Err()
}

// Total is the sum of every requested sleep.
func (c *RecordingClock) Total() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum time.Duration
	for _, d := range c.slept {
		sum += d
	}
	return sum
}

func (c *RecordingClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slept)
}
