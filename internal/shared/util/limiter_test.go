package util

import (
	"context"
	"testing"
	"time"
)

func TestRunLimiter(t *testing.T) {
	// 10 runs per second, burst of 2
	l := NewRunLimiter(10, 2)

	if !l.Allow() {
		t.Error("expected first run to be allowed")
	}
	if !l.Allow() {
		t.Error("expected second run to be allowed (burst)")
	}
	if l.Allow() {
		t.Error("expected third run to be rejected (burst exhausted)")
	}

	time.Sleep(150 * time.Millisecond)
	if !l.Allow() {
		t.Error("expected a run to be allowed after refill")
	}
}

func TestRunLimiter_Unlimited(t *testing.T) {
	l := NewRunLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatalf("expected unlimited limiter to allow run %d", i)
		}
	}
	if d := l.Delay(); d != 0 {
		t.Errorf("expected no delay, got %s", d)
	}
}

func TestRunLimiter_Wait(t *testing.T) {
	l := NewRunLimiter(100, 1)
	l.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Wait returned too early")
	}
}
