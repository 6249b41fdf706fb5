package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNetwork marks backend failures worth retrying: timeouts, refused
// connections and server restarts.
var ErrNetwork = errors.New("network error")

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err or anything it wraps was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

func networkError(op string, err error) error {
	return Retryable(fmt.Errorf("%s: %w: %v", op, ErrNetwork, err))
}

// Backoff is an exponential retry policy. Delay doubles after every
// failed attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff makes three attempts starting one second apart. Tests
// shorten Delay.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry calls fn until it succeeds, returns an error not marked
// [Retryable], or runs out of attempts. The last error is returned.
// Cancelling ctx aborts the wait between attempts.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff retries fn with [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
