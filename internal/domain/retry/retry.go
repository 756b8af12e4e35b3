package retry

import (
	"context"
	"errors"
	"time"

	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
)

var (
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	ErrContextCanceled     = errors.New("context canceled")
)

type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	IsRetryable  func(error) bool
	OnRetry      func(attempt int, delay time.Duration, err error)
}

type Option func(*Config)

func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

func WithIsRetryable(fn func(error) bool) Option {
	return func(c *Config) {
		c.IsRetryable = fn
	}
}

// WithOnRetry replaces the default retry log line.
func WithOnRetry(fn func(attempt int, delay time.Duration, err error)) Option {
	return func(c *Config) {
		c.OnRetry = fn
	}
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  domain.DefaultRetryMaxAttempts,
		InitialDelay: domain.DefaultRetryInitialDelay,
		MaxDelay:     domain.DefaultRetryMaxDelay,
		Multiplier:   domain.DefaultRetryMultiplier,
		IsRetryable:  DefaultIsRetryable,
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that no retry policy retries it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

func DefaultIsRetryable(err error) bool {
	return err != nil && !IsPermanent(err)
}

func DoWithResult[T any](ctx context.Context, fn func() (T, error), opts ...Option) (T, error) {
	var zero T

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return zero, errors.Join(ErrContextCanceled, ctx.Err())
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if IsPermanent(err) || !cfg.IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxAttempts {
			if cfg.OnRetry != nil {
				cfg.OnRetry(attempt, delay, err)
			} else {
				logger.FromContext(ctx).Debug("retry attempt", "attempt", attempt, "error", err, "delay", delay)
			}

			select {
			case <-ctx.Done():
				return zero, errors.Join(ErrContextCanceled, ctx.Err())
			case <-time.After(delay):
			}

			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return zero, errors.Join(ErrMaxAttemptsExceeded, lastErr)
}
