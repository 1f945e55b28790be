package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "api.data.gov.in"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different key has its own bucket.
	if err := limiter.Wait(ctx, "10.0.0.7"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitURL(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.WaitURL(ctx, "https://api.data.gov.in/resource/abc?format=json"); err != nil {
		t.Errorf("WaitURL failed: %v", err)
	}

	if err := limiter.WaitURL(ctx, "://bad"); err == nil {
		t.Error("expected error for unparseable URL")
	}
}

func TestLimiter_Allow(t *testing.T) {
	// 1 rps, burst 1: second immediate request must be denied.
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("203.0.113.9") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("203.0.113.9") {
		t.Error("second immediate request should be denied")
	}

	// Unrelated key is unaffected.
	if !limiter.Allow("203.0.113.10") {
		t.Error("different key should have a fresh bucket")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetRate("fast-client", 1000, 10)

	for i := 0; i < 5; i++ {
		if !limiter.Allow("fast-client") {
			t.Fatalf("request %d should pass with widened rate", i)
		}
	}
}

func TestLimiter_WaitCancellation(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Exhaust the burst, then the next wait must fail on context deadline.
	if err := limiter.Wait(ctx, "slow"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "slow"); err == nil {
		t.Error("expected context deadline error")
	}
}
