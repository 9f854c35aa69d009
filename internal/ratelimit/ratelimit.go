// Package ratelimit provides token bucket request limiting for the
// control plane's inbound surfaces.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter enforces a sustained request rate with burst capacity, wrapping
// golang.org/x/time/rate.
//
// Thread safety:
// All methods are safe for concurrent use.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing requestsPerSecond sustained with up to
// burst requests served immediately from a full bucket.
//
// requestsPerSecond = 0 disables limiting entirely.
func New(requestsPerSecond, burst uint) *Limiter {
	if requestsPerSecond == 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < requestsPerSecond {
		burst = requestsPerSecond
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst)),
	}
}

// Allow reports whether one more request fits under the limit, consuming a
// token when it does. Never blocks; callers reject the request when it
// returns false.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a token is available or ctx ends. Used by callers that
// prefer throttling over rejection.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
