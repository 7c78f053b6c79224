package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetry(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.Delay != 100*time.Millisecond {
		t.Errorf("Delay = %v, want 100ms", r.config.Delay)
	}
	if r.config.RetryIf == nil {
		t.Error("RetryIf should default to retrying every error")
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessOnRetry(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
	})

	attempts := 0
	testErr := errors.New("test error")

	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return testErr
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ExhaustedAttempts(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
	})

	attempts := 0
	testErr := errors.New("persistent error")

	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return testErr
	})

	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Errorf("Execute() error = %v, want ErrMaxRetriesExceeded", err)
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Execute() error = %v, should wrap %v", err, testErr)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_SingleAttempt(t *testing.T) {
	var calls int
	r := NewRetry(RetryConfig{
		MaxAttempts: 1,
		OnRetry:     func(Attempt) { calls++ },
	})

	err := r.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})

	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Errorf("Execute() error = %v, want ErrMaxRetriesExceeded", err)
	}
	if calls != 0 {
		t.Errorf("OnRetry calls = %d, want 0", calls)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts: 10,
		Delay:       100 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	testErr := errors.New("test error")

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := r.Execute(ctx, func(ctx context.Context) error {
		return testErr
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRetry_RetryIf(t *testing.T) {
	retryableErr := errors.New("retryable")
	nonRetryableErr := errors.New("non-retryable")

	r := NewRetry(RetryConfig{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		RetryIf: func(err error) bool {
			return errors.Is(err, retryableErr)
		},
	})

	t.Run("retryable error", func(t *testing.T) {
		attempts := 0
		err := r.Execute(context.Background(), func(ctx context.Context) error {
			attempts++
			return retryableErr
		})

		if !errors.Is(err, retryableErr) || !errors.Is(err, ErrMaxRetriesExceeded) {
			t.Errorf("Execute() error = %v, want exhausted %v", err, retryableErr)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("non-retryable error", func(t *testing.T) {
		attempts := 0
		err := r.Execute(context.Background(), func(ctx context.Context) error {
			attempts++
			return nonRetryableErr
		})

		if err != nonRetryableErr {
			t.Errorf("Execute() error = %v, want %v unchanged", err, nonRetryableErr)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})
}

func TestRetry_OnRetry(t *testing.T) {
	var got []Attempt

	r := NewRetry(RetryConfig{
		MaxAttempts: 3,
		Delay:       10 * time.Millisecond,
		OnRetry: func(a Attempt) {
			got = append(got, a)
		},
	})

	testErr := errors.New("test error")
	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})

	if len(got) != 2 {
		t.Fatalf("callbacks = %d, want 2", len(got))
	}

	want := []Attempt{
		{Number: 1, Remaining: 2, Err: testErr, Delay: 10 * time.Millisecond},
		{Number: 2, Remaining: 1, Err: testErr, Delay: 10 * time.Millisecond},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("callback %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRetry_FixedDelay(t *testing.T) {
	var delays []time.Duration
	r := NewRetry(RetryConfig{
		MaxAttempts: 4,
		Delay:       5 * time.Millisecond,
		OnRetry:     func(a Attempt) { delays = append(delays, a.Delay) },
	})

	start := time.Now()
	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("down")
	})
	elapsed := time.Since(start)

	if len(delays) != 3 {
		t.Fatalf("waits = %d, want 3", len(delays))
	}
	for i, d := range delays {
		if d != 5*time.Millisecond {
			t.Errorf("delay %d = %v, want 5ms", i, d)
		}
	}
	if elapsed < 15*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 15ms", elapsed)
	}
}

func TestRetry_Config(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts: 5,
	})

	config := r.Config()
	if config.MaxAttempts != 5 {
		t.Errorf("Config().MaxAttempts = %d, want 5", config.MaxAttempts)
	}
}
