package retrylimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestFailureCutsRate(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 1, 10, 1, 0.5)
	lim.Failure()
	if got := lim.CurrentLimit(); got != 4 {
		t.Fatalf("expected limit 4 after one failure, got %v", got)
	}
	for i := 0; i < 5; i++ {
		lim.Failure()
	}
	if got := lim.CurrentLimit(); got != 1 {
		t.Errorf("expected limit floored at 1, got %v", got)
	}
}

func TestSuccessRaisesRateUpToMax(t *testing.T) {
	lim := NewAdaptiveLimiter(5, 1, 10, 1, 0.5)
	lim.Success()
	if got := lim.CurrentLimit(); got != 6 {
		t.Fatalf("expected limit 6 after success, got %v", got)
	}
	for i := 0; i < 20; i++ {
		lim.Success()
	}
	if got := lim.CurrentLimit(); got != 10 {
		t.Errorf("expected limit capped at 10, got %v", got)
	}
}

func TestSuccessHeldAfterRecentFailure(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 1, 10, 1, 0.5)
	lim.Failure()
	lim.Success()
	if got := lim.CurrentLimit(); got != 4 {
		t.Errorf("expected limit unchanged right after a failure, got %v", got)
	}
}

func TestRetryStopsAfterMaxAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		return boom
	}, nil, fastConfig(3))

	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestRetryRecoversMidway(t *testing.T) {
	calls := 0
	err := WithRetryConfig(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}, nil, fastConfig(5))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetryConfig(ctx, func() error {
		calls++
		return errors.New("never retried")
	}, nil, fastConfig(3))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no attempts on a dead context, got %d", calls)
	}
}

func TestRetryReportsToLimiter(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 1, 10, 1, 0.5)
	err := WithRetryConfig(context.Background(), func() error {
		return errors.New("down")
	}, lim, fastConfig(2))

	if err == nil {
		t.Fatal("expected error after exhausted attempts")
	}
	if got := lim.CurrentLimit(); got != 2 {
		t.Errorf("expected limit halved twice to 2, got %v", got)
	}
}
