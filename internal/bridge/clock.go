package bridge

import (
	"context"
	"time"
)

// Clock is the delay primitive the poll loops suspend on. Go's time.Now
// carries a monotonic reading, so deadlines computed from it are immune
// to wall-clock adjustment.
type Clock interface {
	Now() time.Time
	// Sleep suspends until d elapses or ctx is done.
	Sleep(ctx context.Context, d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }
