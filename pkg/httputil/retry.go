package httputil

import (
	"context"
	"errors"
	"time"
)

// maxDelay caps the wait between two attempts, including server-requested
// waits.
const maxDelay = time.Minute

// RetryableError marks a transient failure. After, when set, is the wait the
// server asked for (Retry-After) and replaces the backoff delay once.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn up to attempts times, doubling delay after each transient
// failure. Errors not marked with [RetryableError] are returned at once.
// It returns the last error when all attempts fail, or ctx.Err() when the
// context ends while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(lastErr, &re) {
			return lastErr
		}
		if i == attempts-1 {
			break
		}

		wait := min(max(delay, re.After), maxDelay)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}

// IsRetryable reports whether err is marked as transient.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
