package misc

import (
	"context"
	"time"
)

// DefaultBackoff keeps in-cycle retries short enough to fit inside one
// collection deadline.
var DefaultBackoff = []time.Duration{
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
}

// Retry runs op, retrying errors isRetryable accepts with the given delays
// between attempts. It returns nil on the first success, the last error
// once delays are exhausted or the error is not retryable, and ctx.Err()
// when the context ends first.
func Retry(ctx context.Context, delays []time.Duration, isRetryable func(error) bool, op func() error) error {
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if attempt >= len(delays) || !isRetryable(err) {
			return err
		}
		t := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
