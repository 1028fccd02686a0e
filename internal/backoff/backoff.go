// Package backoff provides bounded retry with exponential backoff for
// outbound provider calls. Content-quality retries live in the review loop;
// this package only covers transient transport failures.
package backoff

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultAttempts is the number of tries for a single provider call.
const DefaultAttempts = 3

// DefaultBase is the first retry delay; subsequent delays double.
const DefaultBase = time.Second

// PermanentError marks a failure that retrying cannot fix, such as a
// rejected API key or a malformed request.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Retry gives up immediately instead of burning
// attempts on it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Retry runs fn up to attempts times, sleeping base, 2*base, 4*base ...
// between tries. It stops early when fn succeeds, fn returns an error
// wrapped by Permanent, or the context is cancelled. The returned error
// wraps the last failure.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := base
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *PermanentError
		if errors.As(lastErr, &perm) {
			return perm.Err
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
