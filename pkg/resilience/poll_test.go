package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoll_StopsWhenDone(t *testing.T) {
	statuses := []string{"PENDING", "PENDING", "COMPLETED", "UNREACHED"}
	calls := 0

	got, err := Poll(context.Background(), &FixedBackoff{Delay: time.Millisecond}, 10,
		func(ctx context.Context) (string, bool, error) {
			s := statuses[calls]
			calls++
			return s, s == "COMPLETED", nil
		})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "COMPLETED" {
		t.Errorf("got %q, want COMPLETED", got)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestPoll_Exhausted(t *testing.T) {
	calls := 0

	got, err := Poll(context.Background(), &FixedBackoff{Delay: time.Millisecond}, 3,
		func(ctx context.Context) (string, bool, error) {
			calls++
			return "PENDING", false, nil
		})

	if !errors.Is(err, ErrPollExhausted) {
		t.Fatalf("expected ErrPollExhausted, got %v", err)
	}
	if got != "PENDING" {
		t.Errorf("last value should be returned, got %q", got)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestPoll_ErrorStopsImmediately(t *testing.T) {
	boom := errors.New("transport failure")
	calls := 0

	_, err := Poll(context.Background(), &FixedBackoff{Delay: time.Millisecond}, 5,
		func(ctx context.Context) (string, bool, error) {
			calls++
			return "", false, boom
		})

	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestPoll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	got, err := Poll(ctx, &FixedBackoff{Delay: time.Hour}, 0,
		func(ctx context.Context) (string, bool, error) {
			return "PENDING", false, nil
		})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if got != "PENDING" {
		t.Errorf("last value should be returned, got %q", got)
	}
	if time.Since(start) > time.Second {
		t.Errorf("poll should stop when the context ends")
	}
}
