// Package retry runs an operation until it succeeds, the attempts run out,
// or the error is classified as not worth retrying.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/go-arcade/guestline/pkg/log"
)

// Func must return promptly once ctx is done.
type Func func(ctx context.Context) error

type RetryIf func(error) bool

// OnRetry observes a failed attempt that will be retried. attempt is 1-based.
type OnRetry func(attempt int, err error)

// Backoff maps a 0-based retry index to a wait.
type Backoff interface {
	Next(retry int) time.Duration
}

// BackoffFunc adapts a plain function to Backoff.
type BackoffFunc func(retry int) time.Duration

func (f BackoffFunc) Next(retry int) time.Duration { return f(retry) }

func Fixed(d time.Duration) Backoff {
	return BackoffFunc(func(int) time.Duration { return d })
}

// Exponential doubles base on every retry, capped at limit when one is given.
func Exponential(base time.Duration, limit ...time.Duration) Backoff {
	var ceiling time.Duration
	if len(limit) > 0 {
		ceiling = limit[0]
	}
	return BackoffFunc(func(retry int) time.Duration {
		d := base
		for i := 0; i < retry; i++ {
			if d > time.Duration(1<<62)/2 {
				break
			}
			d *= 2
			if ceiling > 0 && d >= ceiling {
				return ceiling
			}
		}
		if ceiling > 0 && d > ceiling {
			return ceiling
		}
		return d
	})
}

type Jitter func(time.Duration) time.Duration

func NoJitter(d time.Duration) time.Duration { return d }

// FullJitter picks uniformly from [0, d).
func FullJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(d)))
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err, or anything it wraps, was marked Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// IsRetryableError retries everything except context cancellation and deadlines.
func IsRetryableError(err error) bool {
	return err != nil &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

type policy struct {
	attempts int
	backoff  Backoff
	jitter   Jitter
	retryIf  RetryIf
	onRetry  OnRetry
	name     string
}

func (p *policy) delay(retry int) time.Duration {
	return p.jitter(p.backoff.Next(retry))
}

type Option func(*policy)

// WithMaxAttempts counts the first call. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(p *policy) {
		if n > 0 {
			p.attempts = n
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(p *policy) {
		if b != nil {
			p.backoff = b
		}
	}
}

func WithJitter(j Jitter) Option {
	return func(p *policy) {
		if j != nil {
			p.jitter = j
		}
	}
}

func WithRetryIf(fn RetryIf) Option {
	return func(p *policy) {
		if fn != nil {
			p.retryIf = fn
		}
	}
}

func WithOnRetry(fn OnRetry) Option {
	return func(p *policy) { p.onRetry = fn }
}

// WithName labels the operation in debug logs.
func WithName(name string) Option {
	return func(p *policy) { p.name = name }
}

// Do calls fn until it succeeds or the policy gives up, and returns the
// last error with any Permanent marker removed. ctx bounds the whole run.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := &policy{
		attempts: 3,
		backoff:  Fixed(time.Second),
		jitter:   NoJitter,
		retryIf:  IsRetryableError,
	}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	for attempt := 1; ; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err = fn(ctx); err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt >= p.attempts || !p.retryIf(err) {
			return err
		}

		if p.onRetry != nil {
			p.onRetry(attempt, err)
		}
		if p.name != "" {
			log.Debugw("retrying operation", "op", p.name, "attempt", attempt, "error", err)
		}
		if cerr := sleep(ctx, p.delay(attempt-1)); cerr != nil {
			return cerr
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
