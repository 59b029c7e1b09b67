package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RunLimiter caps how often watch mode may start a new analysis run.
type RunLimiter struct {
	inner *rate.Limiter
}

// NewRunLimiter allows perSecond runs with the given burst. A non-positive
// rate disables limiting.
func NewRunLimiter(perSecond float64, burst int) *RunLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RunLimiter{inner: rate.NewLimiter(limit, burst)}
}

// Allow reports whether a run may start now, consuming a token if so.
func (l *RunLimiter) Allow() bool {
	return l.inner.Allow()
}

// Delay reserves a token and returns how long the caller must wait before
// using it.
func (l *RunLimiter) Delay() time.Duration {
	return l.inner.Reserve().Delay()
}

// Wait blocks until a run may start or ctx is done.
func (l *RunLimiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
