package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
)

func testRepo(maxRetries int) *NewsRepository {
	return NewNewsRepository(nil, config.RetryConfig{MaxRetries: maxRetries, RetryDelay: 0}, nil)
}

func TestWithRetryStopsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	transient := errors.New("connection reset")
	calls := 0
	err := testRepo(3).withRetry(context.Background(), func() error {
		calls++
		return transient
	})

	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
	if !errors.Is(err, transient) {
		t.Errorf("expected the last error to be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error should report the attempt count: %v", err)
	}
}

func TestWithRetrySucceedsMidway(t *testing.T) {
	t.Parallel()

	calls := 0
	err := testRepo(5).withRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success once the op recovers, got %v", err)
	}
	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	repo := NewNewsRepository(nil, config.RetryConfig{MaxRetries: 5, RetryDelay: 60}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- repo.withRetry(ctx, func() error { return errors.New("down") })
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("withRetry did not return after cancellation")
	}
}

func TestWithRetryZeroConfigRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_ = testRepo(0).withRetry(context.Background(), func() error {
		calls++
		return errors.New("boom")
	})
	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
}

func TestGetNewsByPeriodWithoutConnection(t *testing.T) {
	t.Parallel()

	period := domain.Period{Name: "AFTERNOON", Start: "08:00", End: "14:30", CheckTime: "14:40"}
	if _, err := testRepo(1).GetNewsByPeriod(context.Background(), time.Now(), period); err == nil {
		t.Fatal("expected an error when the repository is not connected")
	}
}
