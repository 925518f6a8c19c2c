package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable means a remote backend could not be reached.
	ErrUnavailable = errors.New("cache backend unavailable")
	ErrClosed      = errors.New("cache closed")
)

// RetryDelay is the wait before the second attempt; it doubles after that.
var RetryDelay = 100 * time.Millisecond

const retryAttempts = 3

// RetryableError marks a failure worth another attempt, such as a dropped
// Redis connection.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string  { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err for [RetryWithBackoff]. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// [Retryable], or has failed three times. The last error is returned.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
