package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(1, time.Hour)
	key := "127.0.0.1"
	now := time.Now().UTC()

	limiter.fail(key, now.Add(-2*time.Hour))
	if limiter.blocked(key, now) {
		t.Fatal("expected old failure to be pruned from the window")
	}

	limiter.fail(key, now.Add(-30*time.Minute))
	if !limiter.blocked(key, now) {
		t.Fatal("expected one recent failure to hit limit 1")
	}

	limiter.reset(key)
	if limiter.blocked(key, now) {
		t.Fatal("expected no failures after reset")
	}
}

func TestAttemptLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter(2, time.Minute)
	now := time.Now().UTC()

	limiter.fail("10.0.0.1", now)
	limiter.fail("10.0.0.1", now)
	limiter.fail("10.0.0.2", now)

	if !limiter.blocked("10.0.0.1", now) {
		t.Fatal("expected first key to be blocked after two failures")
	}
	if limiter.blocked("10.0.0.2", now) {
		t.Fatal("expected second key to stay open")
	}
	if limiter.blocked("10.0.0.1", now.Add(2*time.Minute)) {
		t.Fatal("expected failures to expire with the window")
	}
}
