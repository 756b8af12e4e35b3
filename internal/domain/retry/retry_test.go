package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	errConnReset = errors.New("read tcp: connection reset by peer")
	errBadKey    = errors.New("reply code 110: invalid api key")
)

// flaky fails with the given errors in turn and then succeeds.
type flaky struct {
	errs  []error
	calls int
}

func (f *flaky) list() ([]string, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return nil, f.errs[f.calls-1]
	}
	return []string{"rec-1", "rec-2"}, nil
}

func TestDoWithResult(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		opts      []Option
		wantCalls int
		wantErr   error
		wantLen   int
	}{
		{
			name:      "first attempt succeeds",
			wantCalls: 1,
			wantLen:   2,
		},
		{
			name:      "recovers after a reset",
			errs:      []error{errConnReset},
			wantCalls: 2,
			wantLen:   2,
		},
		{
			name:      "gives up after max attempts",
			errs:      []error{errConnReset, errConnReset, errConnReset},
			wantCalls: 3,
			wantErr:   ErrMaxAttemptsExceeded,
		},
		{
			name:      "permanent error stops at once",
			errs:      []error{Permanent(errBadKey)},
			wantCalls: 1,
			wantErr:   errBadKey,
		},
		{
			name:      "predicate rejects the error",
			errs:      []error{errBadKey},
			opts:      []Option{WithIsRetryable(func(error) bool { return false })},
			wantCalls: 1,
			wantErr:   errBadKey,
		},
		{
			name:      "single attempt",
			errs:      []error{errConnReset},
			opts:      []Option{WithMaxAttempts(1)},
			wantCalls: 1,
			wantErr:   errConnReset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &flaky{errs: tt.errs}
			opts := append([]Option{WithInitialDelay(time.Millisecond)}, tt.opts...)

			got, err := DoWithResult(context.Background(), f.list, opts...)

			if f.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", f.calls, tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if got != nil {
					t.Errorf("expected nil result on failure, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len(result) = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestDoWithResult_CanceledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := DoWithResult(ctx, func() (int, error) {
		called = true
		return 0, nil
	})

	if !errors.Is(err, ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation error, got %v", err)
	}
	if called {
		t.Error("fn must not run on a canceled context")
	}
}

func TestDoWithResult_CanceledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	_, err := DoWithResult(ctx, func() (int, error) {
		cancel()
		return 0, errConnReset
	}, WithInitialDelay(time.Hour))

	if !errors.Is(err, ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
}

func TestDoWithResult_Backoff(t *testing.T) {
	tests := []struct {
		name       string
		attempts   int
		initial    time.Duration
		maxDelay   time.Duration
		multiplier float64
		want       []time.Duration
	}{
		{
			name:       "doubles",
			attempts:   4,
			initial:    10 * time.Millisecond,
			maxDelay:   time.Second,
			multiplier: 2,
			want:       []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond},
		},
		{
			name:       "capped",
			attempts:   4,
			initial:    10 * time.Millisecond,
			maxDelay:   15 * time.Millisecond,
			multiplier: 10,
			want:       []time.Duration{10 * time.Millisecond, 15 * time.Millisecond, 15 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var delays []time.Duration
			_, _ = DoWithResult(context.Background(), func() (int, error) { return 0, errConnReset },
				WithMaxAttempts(tt.attempts),
				WithInitialDelay(tt.initial),
				WithMaxDelay(tt.maxDelay),
				WithMultiplier(tt.multiplier),
				WithOnRetry(func(_ int, delay time.Duration, _ error) {
					delays = append(delays, delay)
				}))

			if len(delays) != len(tt.want) {
				t.Fatalf("delays = %v, want %v", delays, tt.want)
			}
			for i := range tt.want {
				if delays[i] != tt.want[i] {
					t.Errorf("delay[%d] = %v, want %v", i, delays[i], tt.want[i])
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxAttempts != 3 || cfg.InitialDelay != 500*time.Millisecond || cfg.MaxDelay != 10*time.Second || cfg.Multiplier != 2.0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsRetryable(errConnReset) {
		t.Error("plain errors should be retryable by default")
	}
	if cfg.IsRetryable(Permanent(errBadKey)) {
		t.Error("permanent errors must not be retryable")
	}
	if cfg.IsRetryable(nil) {
		t.Error("nil must not be retryable")
	}
}

func TestPermanent(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
	err := Permanent(errBadKey)
	if !IsPermanent(err) || !errors.Is(err, errBadKey) {
		t.Errorf("Permanent must keep its cause: %v", err)
	}
	if err.Error() != errBadKey.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), errBadKey.Error())
	}
}
