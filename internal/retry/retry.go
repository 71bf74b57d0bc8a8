// Package retry wraps single external API calls with bounded retry and
// pure exponential backoff. Only errors the caller classifies as
// transient are retried; everything else fails on the first attempt.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Defaults applied by Policy.Do when the corresponding field is zero.
const (
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = time.Second
)

// Error is the terminal failure returned when a wrapped call gives up.
// It identifies the operation, the number of attempts made, and the
// underlying cause.
type Error struct {
	Op       string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Policy holds the retry budget for a single external call.
type Policy struct {
	// MaxAttempts bounds the number of calls made. Defaults to 5.
	MaxAttempts int

	// InitialDelay is the wait before the first retry; the wait before
	// the k-th retry is InitialDelay * 2^k. No jitter. Defaults to 1s.
	InitialDelay time.Duration

	// Sleep waits for the given duration, honouring ctx cancellation.
	// Injectable for tests; defaults to a timer-based wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default returns the standard policy: 5 attempts, 1s initial delay.
func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, InitialDelay: DefaultInitialDelay}
}

// Do runs fn up to MaxAttempts times. After a failure that retryable
// classifies as transient, it waits InitialDelay * 2^attempt and tries
// again. A non-transient failure, or exhaustion of the attempt budget,
// returns an *Error wrapping op and the last cause. The total wait is
// the deterministic sum of the geometric backoff series.
func (p Policy) Do(ctx context.Context, op string, retryable func(error) bool, fn func(context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	initialDelay := p.InitialDelay
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if retryable == nil || !retryable(err) {
			return &Error{Op: op, Attempts: attempt + 1, Err: err}
		}
		if attempt == maxAttempts-1 {
			return &Error{Op: op, Attempts: maxAttempts, Err: err}
		}

		wait := initialDelay << uint(attempt)
		if err := sleep(ctx, wait); err != nil {
			return &Error{Op: op, Attempts: attempt + 1, Err: err}
		}
	}

	// Unreachable under the loop logic above; kept so an exit without an
	// explicit success or failure still surfaces a terminal error.
	return &Error{Op: op, Attempts: maxAttempts, Err: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
