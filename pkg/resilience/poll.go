package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPollExhausted is returned when maxAttempts polls never reported done
var ErrPollExhausted = errors.New("poll attempts exhausted")

// PollFunc fetches the current value. done reports whether polling can stop.
type PollFunc[T any] func(ctx context.Context) (value T, done bool, err error)

// Poll calls fn until it reports done, returns an error, ctx ends or
// maxAttempts calls have been made. Between calls it sleeps for
// backoff.NextDelay(attempt). The last value seen is always returned.
func Poll[T any](ctx context.Context, backoff BackoffStrategy, maxAttempts int, fn PollFunc[T]) (T, error) {
	var last T
	for attempt := 0; maxAttempts <= 0 || attempt < maxAttempts; attempt++ {
		value, done, err := fn(ctx)
		if err != nil {
			return value, err
		}
		last = value
		if done {
			return value, nil
		}

		if maxAttempts > 0 && attempt == maxAttempts-1 {
			break
		}

		timer := time.NewTimer(backoff.NextDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, ctx.Err()
		case <-timer.C:
		}
	}
	return last, fmt.Errorf("%w after %d attempts", ErrPollExhausted, maxAttempts)
}
