package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MinInterval enforces a minimum time between consecutive dispatches.
// The read, the wait and the update of the last dispatch time happen while
// holding a single slot, so concurrent callers can never dispatch closer
// together than Interval. Waiters are not served in any particular order.
type MinInterval struct {
	interval time.Duration
	slot     chan struct{}

	mu   sync.Mutex
	last time.Time
}

// NewMinInterval returns a gate with the given spacing. A non-positive
// interval never blocks.
func NewMinInterval(interval time.Duration) *MinInterval {
	return &MinInterval{interval: interval, slot: make(chan struct{}, 1)}
}

// Interval returns the configured spacing.
func (m *MinInterval) Interval() time.Duration { return m.interval }

// Last returns the time of the most recent dispatch, or the zero time.
func (m *MinInterval) Last() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Wait sleeps out whatever remains of the interval since the last
// dispatch and then records now as the new dispatch time. It returns early
// with ctx.Err() if ctx ends first, in which case no slot is used.
func (m *MinInterval) Wait(ctx context.Context) error {
	select {
	case m.slot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-m.slot }()

	last := m.Last()
	if m.interval > 0 && !last.IsZero() {
		if wait := m.interval - time.Since(last); wait > 0 {
			t := time.NewTimer(wait)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-t.C:
			}
		}
	}

	m.mu.Lock()
	m.last = time.Now()
	m.mu.Unlock()
	return nil
}
