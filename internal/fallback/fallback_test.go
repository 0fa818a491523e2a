package fallback

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRun_PrimarySucceeds(t *testing.T) {
	out, err := Run(context.Background(), time.Second,
		func(ctx context.Context) (string, error) { return "primary", nil },
		func(ctx context.Context) (string, error) { return "fallback", nil },
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Value != "primary" {
		t.Errorf("Expected primary value, got %q", out.Value)
	}
	if out.Degraded {
		t.Error("Expected not degraded when primary succeeds")
	}
}

func TestRun_PrimaryFails(t *testing.T) {
	out, err := Run(context.Background(), time.Second,
		func(ctx context.Context) (string, error) { return "", errors.New("backend down") },
		func(ctx context.Context) (string, error) { return "fallback", nil },
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Value != "fallback" {
		t.Errorf("Expected fallback value, got %q", out.Value)
	}
	if !out.Degraded {
		t.Error("Expected degraded when primary fails")
	}
}

func TestRun_PrimaryTimeout(t *testing.T) {
	out, err := Run(context.Background(), 20*time.Millisecond,
		func(ctx context.Context) (int, error) {
			select {
			case <-time.After(time.Second):
				return 1, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		},
		func(ctx context.Context) (int, error) { return 2, nil },
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Value != 2 {
		t.Errorf("Expected fallback value 2, got %d", out.Value)
	}
	if !out.Degraded {
		t.Error("Expected degraded after primary timeout")
	}
}

func TestRun_NilPrimaryUsesFallback(t *testing.T) {
	out, err := Run[string](context.Background(), time.Second, nil,
		func(ctx context.Context) (string, error) { return "fallback", nil },
	)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Value != "fallback" || !out.Degraded {
		t.Errorf("Expected degraded fallback, got %+v", out)
	}
}

func TestRun_BothFail(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), time.Second,
		func(ctx context.Context) (string, error) { return "", boom },
		func(ctx context.Context) (string, error) { return "", errors.New("also down") },
	)
	if err == nil {
		t.Fatal("Expected error when both paths fail")
	}
}

func TestRun_CallerCancelAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fallbackRan := false
	_, err := Run(ctx, time.Second,
		func(ctx context.Context) (string, error) { return "", ctx.Err() },
		func(ctx context.Context) (string, error) {
			fallbackRan = true
			return "fallback", nil
		},
	)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if fallbackRan {
		t.Error("Fallback must not run after caller cancellation")
	}
}
