package compositor

import (
	"context"
	"errors"
	"time"
)

// DefaultRetryDelay is the wait before the first retry. It doubles after
// every attempt.
const DefaultRetryDelay = 5 * time.Second

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn up to 1+retries times with exponential backoff.
// Only errors wrapped with Retryable trigger retries.
func RetryWithBackoff(ctx context.Context, retries int, delay time.Duration, fn func() error) error {
	attempts := 1 + max(retries, 0)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
