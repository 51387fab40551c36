// Package ratelimit paces consecutive external call sequences.
package ratelimit

import (
	"context"
	"time"
)

// DefaultInterval is the pause between consecutive leads in a batch.
const DefaultInterval = time.Second

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Interval is an in-process throttle that waits a fixed duration per call.
type Interval struct {
	Every time.Duration
	Sleep SleepFunc
}

// NewInterval returns an Interval; a non-positive every selects DefaultInterval.
func NewInterval(every time.Duration) *Interval {
	if every <= 0 {
		every = DefaultInterval
	}
	return &Interval{Every: every, Sleep: Sleep}
}

func (i *Interval) Wait(ctx context.Context) error {
	sleep := i.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, i.Every)
}

// Sleep waits for d, returning ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
