package service

import (
	"fmt"
	"testing"
	"time"
)

func TestMemoryRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter(time.Minute, 3).(*memoryRateLimiter)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatalf("fourth request should be limited")
	}
	if !l.Allow("10.0.0.2") {
		t.Fatalf("other keys keep their own window")
	}

	now = now.Add(time.Minute)
	if !l.Allow("10.0.0.1") {
		t.Fatalf("expected a new window after expiry")
	}
}

func TestMemoryRateLimiter_Defaults(t *testing.T) {
	l := NewMemoryRateLimiter(0, 0).(*memoryRateLimiter)
	if l.window != time.Minute || l.max != 1 {
		t.Fatalf("unexpected defaults window=%v max=%d", l.window, l.max)
	}
}

func TestMemoryRateLimiter_SweepsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter(time.Minute, 1).(*memoryRateLimiter)
	l.now = func() time.Time { return now }
	for i := 0; i < sweepThreshold; i++ {
		l.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}

	now = now.Add(2 * time.Minute)
	l.Allow("fresh")
	if len(l.buckets) != 1 {
		t.Fatalf("expected expired buckets swept, got %d", len(l.buckets))
	}
}

func TestOTPHashRoundTrip(t *testing.T) {
	code, hash, expiresAt, err := generateOTP(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !isValidOTPCode(code) {
		t.Fatalf("expected 6 digit code, got %q", code)
	}
	if !expiresAt.Equal(time.Date(2025, 1, 1, 0, 10, 0, 0, time.UTC)) {
		t.Fatalf("expected 10 minute expiry, got %v", expiresAt)
	}
	if !verifyOTP(code, hash) {
		t.Fatalf("expected code to verify")
	}
	if verifyOTP(code, "no-separator") || verifyOTP(code, ":") {
		t.Fatalf("malformed hashes must not verify")
	}
}
