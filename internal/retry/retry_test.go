package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0,
	}
}

func TestDo(t *testing.T) {
	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), fastConfig(), nil, func(context.Context) error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), fastConfig(), nil, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("flaky")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("exhausts retries", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := Do(context.Background(), fastConfig(), nil, func(context.Context) error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped boom, got %v", err)
		}
		if calls != 4 {
			t.Errorf("expected 4 calls (1 + 3 retries), got %d", calls)
		}
	})

	t.Run("stops on non-retryable error", func(t *testing.T) {
		calls := 0
		fatal := errors.New("fatal")
		classify := func(err error) bool { return !errors.Is(err, fatal) }

		err := Do(context.Background(), fastConfig(), classify, func(context.Context) error {
			calls++
			return fatal
		})
		if !errors.Is(err, fatal) {
			t.Fatalf("expected fatal error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call for permanent error, got %d", calls)
		}
	})

	t.Run("context cancellation interrupts backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		cfg := fastConfig()
		cfg.InitialBackoff = time.Minute
		cfg.MaxBackoff = time.Minute

		errs := make(chan error, 1)
		go func() {
			errs <- Do(ctx, cfg, nil, func(context.Context) error {
				return errors.New("always")
			})
		}()

		cancel()

		select {
		case err := <-errs:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Do did not return after cancellation")
		}
	})
}

func TestTransient(t *testing.T) {
	if Transient(context.Canceled) {
		t.Error("context.Canceled should not be retryable")
	}
	if Transient(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded should not be retryable")
	}
	if !Transient(errors.New("network blip")) {
		t.Error("generic errors should be retryable")
	}
}
