package scheduler

import (
	"time"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

// backoff decides the wait before the next cycle from the previous
// outcome. Only upstream throttling stretches the wait; every other kind,
// success included, retries at the configured interval.
type backoff struct {
	interval time.Duration
	max      time.Duration
	compound bool
	wait     time.Duration
}

func newBackoff(interval, max time.Duration, compound bool) *backoff {
	if max < interval {
		max = interval
	}
	return &backoff{interval: interval, max: max, compound: compound, wait: interval}
}

// after folds one cycle outcome in and returns the next wait. In compound
// mode consecutive throttles keep doubling up to the cap; otherwise every
// throttle waits twice the interval.
func (b *backoff) after(kind domain.ErrorKind) time.Duration {
	if kind != domain.KindRateLimited {
		b.wait = b.interval
		return b.wait
	}
	if b.compound && b.wait > b.interval {
		b.wait = min(b.wait*2, b.max)
	} else {
		b.wait = min(2*b.interval, b.max)
	}
	return b.wait
}
