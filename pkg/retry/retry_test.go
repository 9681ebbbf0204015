package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
)

func transportErr(msg string) error {
	return fmt.Errorf("%w: %s", errdefs.ErrTransport, msg)
}

func TestWithBackoff_Success(t *testing.T) {
	result, err := WithBackoff(context.Background(), 3, 10*time.Millisecond, func() (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected 'ok', got %q", result)
	}
}

func TestWithBackoff_NonRetriableError(t *testing.T) {
	calls := 0
	_, err := WithBackoff(context.Background(), 3, 10*time.Millisecond, func() (string, error) {
		calls++
		return "", errdefs.ErrNotFound
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call for non-retriable error, got %d", calls)
	}
}

func TestWithBackoff_RetriableEventualSuccess(t *testing.T) {
	calls := 0
	result, err := WithBackoff(context.Background(), 5, 10*time.Millisecond, func() (string, error) {
		calls++
		if calls < 3 {
			return "", transportErr("unavailable")
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result != "recovered" {
		t.Fatalf("expected 'recovered', got %q", result)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithBackoff_AllRetriesFail(t *testing.T) {
	calls := 0
	_, err := WithBackoff(context.Background(), 3, 10*time.Millisecond, func() (string, error) {
		calls++
		return "", transportErr("still down")
	})
	if err == nil {
		t.Fatal("expected error after all retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithBackoff(ctx, 5, 10*time.Millisecond, func() (string, error) {
		return "", transportErr("unavailable")
	})
	if err == nil {
		t.Fatal("expected context cancelled error")
	}
}

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{transportErr("unavailable"), true},
		{errdefs.ErrTransport, true},
		{errdefs.ErrNotFound, false},
		{errdefs.ErrPermissionDenied, false},
		{errdefs.ErrValidation, false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := IsRetriable(tt.err); got != tt.expected {
			t.Errorf("IsRetriable(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker(3, 1*time.Second)

	err := cb.Execute(func() error {
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cb.state != StateClosed {
		t.Fatalf("expected StateClosed, got %v", cb.state)
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(3, 1*time.Second)

	for i := 0; i < 3; i++ {
		cb.Execute(func() error {
			return transportErr("unavailable")
		})
	}

	if cb.state != StateOpen {
		t.Fatalf("expected StateOpen after %d failures, got %v", 3, cb.state)
	}

	err := cb.Execute(func() error {
		return nil
	})
	if err != ErrCircuitOpen {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_ResetsAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(2, 50*time.Millisecond)

	for i := 0; i < 2; i++ {
		cb.Execute(func() error {
			return transportErr("unavailable")
		})
	}
	if cb.state != StateOpen {
		t.Fatal("expected StateOpen")
	}

	time.Sleep(60 * time.Millisecond)

	err := cb.Execute(func() error {
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error after timeout, got %v", err)
	}
	if cb.state != StateClosed {
		t.Fatalf("expected StateClosed after successful call, got %v", cb.state)
	}
}

func TestCircuitBreaker_NonRetriableErrorDoesNotCount(t *testing.T) {
	cb := NewCircuitBreaker(2, 1*time.Second)

	for i := 0; i < 5; i++ {
		cb.Execute(func() error {
			return errdefs.ErrNotFound
		})
	}

	if cb.state != StateClosed {
		t.Fatalf("expected StateClosed for non-retriable errors, got %v", cb.state)
	}
}
