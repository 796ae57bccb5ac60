package combat

import (
	"context"
	"time"
)

// Pacer turns the virtual delay before a task into wall-clock waiting.
type Pacer interface {
	// Wait blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Wait(ctx context.Context, d time.Duration) error
}

// RealPacer waits for the full delay scaled by Scale; a zero Scale means 1.
type RealPacer struct {
	Scale float64
}

// Wait implements Pacer.
//
// Postcondition: Returns nil after the scaled delay, or ctx.Err() if ctx ends first.
func (p RealPacer) Wait(ctx context.Context, d time.Duration) error {
	if p.Scale > 0 {
		d = time.Duration(float64(d) * p.Scale)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// InstantPacer never waits.
type InstantPacer struct{}

// Wait implements Pacer.
func (InstantPacer) Wait(ctx context.Context, _ time.Duration) error { return ctx.Err() }
