package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterReusedPerProvider(t *testing.T) {
	u := NewWithDefaults()

	a := u.Limiter("serpapi")
	b := u.Limiter("serpapi")
	if a != b {
		t.Error("expected the same bucket for one provider")
	}
	if u.Limiter("places") == a {
		t.Error("providers must not share a bucket")
	}
}

func TestSetLimitOverrides(t *testing.T) {
	u := NewWithDefaults()
	u.SetLimit("serpapi", 1, 1)

	limiter := u.Limiter("serpapi")
	if got := float64(limiter.Limit()); got != 1 {
		t.Errorf("expected limit 1, got %v", got)
	}
	if limiter.Burst() != 1 {
		t.Errorf("expected burst 1, got %d", limiter.Burst())
	}
}

func TestWaitHonorsContext(t *testing.T) {
	u := New(Config{RequestsPerSecond: 0.001, BurstSize: 1})

	ctx := context.Background()
	if err := u.Wait(ctx, "slow"); err != nil {
		t.Fatalf("first request should pass: %v", err)
	}

	cancelled, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := u.Wait(cancelled, "slow"); err == nil {
		t.Error("expected context deadline to abort the wait")
	}
}
