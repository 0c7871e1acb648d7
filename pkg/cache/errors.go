package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared by the cache backends and the snapshot sources
// built on them.
var (
	// ErrNotFound reports that the requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork reports a failed snapshot fetch (timeout, connection
	// error, 5xx response).
	ErrNetwork = errors.New("network error")

	// ErrCacheMiss reports that a key is absent from the cache.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError marks an error as transient so RetryWithBackoff will try
// again.
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

// RetryWithBackoff runs fn up to 3 times with exponential backoff. Only
// errors wrapped with Retryable trigger another attempt; the HTTP snapshot
// source relies on this to ride out flaky fetches.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
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
