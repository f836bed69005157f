package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is wrapped by transient backend failures (timeouts, dropped
// connections) that are worth retrying.
var ErrBackend = errors.New("cache backend unavailable")

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth another attempt. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err (or anything it wraps) was marked with
// Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff retries an operation on transient errors, doubling the wait after
// each failed attempt.
type Backoff struct {
	Attempts int
	Initial  time.Duration
}

// DefaultBackoff is used by RedisCache.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 100 * time.Millisecond}

// Do runs fn until it succeeds, returns a non-transient error or the attempts
// are used up. The last error is returned; ctx cancellation during a wait
// returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	wait := b.Initial

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		wait *= 2
	}
	return err
}
