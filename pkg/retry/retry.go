// Package retry provides retrying with exponential backoff and jitter.
// Designed for resilient calls to the data stores (PostgreSQL, Redis).
// No external dependencies - uses only standard library.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// markedError tags an error as explicitly retryable or permanent.
type markedError struct {
	err       error
	retryable bool
}

func (e *markedError) Error() string { return e.err.Error() }
func (e *markedError) Unwrap() error { return e.err }

// Retryable wraps an error to indicate it should be retried.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &markedError{err: err, retryable: true}
}

// Permanent wraps an error to indicate it should not be retried.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &markedError{err: err, retryable: false}
}

// IsRetryable checks if an error was wrapped with Retryable.
func IsRetryable(err error) bool {
	var marked *markedError
	return errors.As(err, &marked) && marked.retryable
}

// IsPermanent checks if an error was wrapped with Permanent.
func IsPermanent(err error) bool {
	var marked *markedError
	return errors.As(err, &marked) && !marked.retryable
}

// Config holds retry configuration.
type Config struct {
	// MaxAttempts counts the first attempt too.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration

	// Multiplier grows the delay after each attempt.
	Multiplier float64

	// JitterFactor adds randomness to delays (0.0 = none, 1.0 = full).
	JitterFactor float64

	// RetryIf decides whether an error is worth retrying.
	// When nil, only errors wrapped with Retryable are retried.
	RetryIf func(error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// Option is a functional option for configuring retries.
type Option func(*Config)

func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.InitialDelay = d
		}
	}
}

func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.MaxDelay = d
		}
	}
}

func WithMultiplier(m float64) Option {
	return func(c *Config) {
		if m >= 1.0 {
			c.Multiplier = m
		}
	}
}

func WithJitter(j float64) Option {
	return func(c *Config) {
		if j >= 0 && j <= 1.0 {
			c.JitterFactor = j
		}
	}
}

func WithRetryIf(fn func(error) bool) Option {
	return func(c *Config) { c.RetryIf = fn }
}

func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(c *Config) { c.OnRetry = fn }
}

// Retrier executes operations with retries.
type Retrier struct {
	config Config
}

// New creates a new Retrier with the given options.
func New(opts ...Option) *Retrier {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Retrier{config: config}
}

// Do runs the operation until it succeeds, returns a non-retryable
// error, or exhausts the attempts. Marked errors come back unwrapped.
func (r *Retrier) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			return errors.Unwrap(err)
		}

		shouldRetry := IsRetryable(err)
		if r.config.RetryIf != nil {
			shouldRetry = r.config.RetryIf(err)
		}
		if !shouldRetry {
			return err
		}

		if attempt == r.config.MaxAttempts {
			if IsRetryable(err) {
				return errors.Unwrap(err)
			}
			return err
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay):
		}
	}

	return lastErr
}

// delay computes the backoff for a given attempt, with jitter.
func (r *Retrier) delay(attempt int) time.Duration {
	d := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))
	d = math.Min(d, float64(r.config.MaxDelay))

	if r.config.JitterFactor > 0 {
		d += d * r.config.JitterFactor * (rand.Float64()*2 - 1)
	}

	return time.Duration(math.Max(d, 0))
}

// Do is a convenience function that creates a Retrier and executes the operation.
func Do(ctx context.Context, operation func(ctx context.Context) error, opts ...Option) error {
	return New(opts...).Do(ctx, operation)
}

// DoWithData is a helper for operations that return data.
func DoWithData[T any](ctx context.Context, operation func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	var result T
	err := New(opts...).Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = operation(ctx)
		return opErr
	})
	return result, err
}

// DatabaseRetrier returns a Retrier configured for database operations.
func DatabaseRetrier() *Retrier {
	return New(
		WithMaxAttempts(3),
		WithInitialDelay(50*time.Millisecond),
		WithMaxDelay(1*time.Second),
		WithMultiplier(2.0),
		WithJitter(0.05),
	)
}

// CacheRetrier returns a Retrier configured for Redis operations.
// Fast attempts, short backoff: the cache is best-effort.
func CacheRetrier() *Retrier {
	return New(
		WithMaxAttempts(2),
		WithInitialDelay(20*time.Millisecond),
		WithMaxDelay(200*time.Millisecond),
		WithMultiplier(2.0),
		WithJitter(0.1),
	)
}
