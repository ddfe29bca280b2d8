// Package retry implements the automatic retry policy for outbound
// dials: a bounded number of attempts separated by exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ── Permanent errors ─────────────────────────────────────────────────

// PermanentError wraps an error to signal that retrying will not help.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks err as non-retryable.  Do returns the inner error
// immediately without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err has been marked as permanent.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// ── Policy ───────────────────────────────────────────────────────────

// Policy describes how many times an operation is attempted and how
// long to wait in between.  The zero value (and nil) makes exactly one
// attempt.
type Policy struct {
	// Attempts is the total number of tries including the first.
	// Values below 1 are treated as 1.
	Attempts int
	// Delay is the wait before the second attempt (default 1s).
	Delay time.Duration
	// MaxDelay caps the backoff (default 30s).
	MaxDelay time.Duration
	// Multiplier grows the delay each attempt (default 2.0).
	Multiplier float64
	// Jitter adds ±25% randomisation to every wait.
	Jitter bool
}

// Once returns a policy that never retries.
func Once() *Policy { return &Policy{Attempts: 1} }

// MaxAttempts returns the effective attempt budget.
func (p *Policy) MaxAttempts() int {
	if p == nil || p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

// Backoff returns the wait before attempt n+1, given that attempt n
// (1-based) just failed.
func (p *Policy) Backoff(n int) time.Duration {
	delay, maxDelay, mult := time.Second, 30*time.Second, 2.0
	if p != nil {
		if p.Delay > 0 {
			delay = p.Delay
		}
		if p.MaxDelay > 0 {
			maxDelay = p.MaxDelay
		}
		if p.Multiplier > 0 {
			mult = p.Multiplier
		}
	}
	d := float64(delay) * math.Pow(mult, float64(n-1))
	if d > float64(maxDelay) {
		d = float64(maxDelay)
	}
	wait := time.Duration(d)
	if p != nil && p.Jitter {
		wait = addJitter(wait)
	}
	return wait
}

// Do runs fn until it succeeds, returns a permanent error, the attempt
// budget is spent, or ctx is done.  It returns the number of attempts
// made and the last error (unwrapped from PermanentError).  When ctx
// ends during a wait, the context error is joined with the last
// failure so both stay inspectable.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	budget := p.MaxAttempts()

	for attempt := 1; ; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return attempt, nil
		}
		if IsPermanent(err) {
			return attempt, errors.Unwrap(err)
		}
		if attempt >= budget {
			return attempt, err
		}

		timer := time.NewTimer(p.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return attempt, errors.Join(ctx.Err(), err)
		case <-timer.C:
		}
	}
}

// addJitter adds ±25% randomisation to a duration.
func addJitter(d time.Duration) time.Duration {
	quarter := float64(d) * 0.25
	delta := (rand.Float64() * 2 * quarter) - quarter
	result := float64(d) + delta
	return time.Duration(math.Max(result, float64(time.Millisecond)))
}
