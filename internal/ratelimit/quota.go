// Package ratelimit spaces out outbound API calls.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Quota caps the number of requests per minute, for plans that publish a
// per-minute allowance on top of the spacing rule. A nil *Quota never
// blocks.
type Quota struct {
	limiter *rate.Limiter
}

// NewQuota allows perMinute requests per minute with bursts of up to burst
// requests. It returns nil when perMinute is not positive.
func NewQuota(perMinute, burst int) *Quota {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	every := time.Minute / time.Duration(perMinute)
	return &Quota{limiter: rate.NewLimiter(rate.Every(every), burst)}
}

// Wait blocks until one request is allowed or ctx ends.
func (q *Quota) Wait(ctx context.Context) error {
	if q == nil {
		return nil
	}
	return q.limiter.Wait(ctx)
}
