package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out mutating calls against the remote API.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a [Pacer] allowing one call per delay.
//
// A non-positive delay disables pacing.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return noPacer{}
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

type noPacer struct{}

func (noPacer) Wait(ctx context.Context) error { return ctx.Err() }
