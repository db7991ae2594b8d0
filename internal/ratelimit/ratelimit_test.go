package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		fallback Rate
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			fallback: Rate{RPS: 1, Burst: 3},
			key:      "storefront",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			fallback: Rate{RPS: 1, Burst: 2},
			key:      "storefront",
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.fallback)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_PerKeyRates(t *testing.T) {
	rl := New(Rate{RPS: 1, Burst: 1})
	rl.SetRate("steamspy", Rate{RPS: 1, Burst: 3})

	// Configured key gets its own burst.
	for i := 0; i < 3; i++ {
		if !rl.Allow("steamspy") {
			t.Fatalf("steamspy call %d should pass within burst", i)
		}
	}
	if rl.Allow("steamspy") {
		t.Error("steamspy should be exhausted after burst")
	}

	// Fallback key is independent.
	if !rl.Allow("storefront") {
		t.Error("storefront should still have its own budget")
	}
}

func TestKeyedRateLimiter_SetRateAfterUseIgnored(t *testing.T) {
	rl := New(Rate{RPS: 1, Burst: 1})

	rl.Allow("storefront")
	rl.SetRate("storefront", Rate{RPS: 1000, Burst: 1000})

	// The original bucket stays in effect.
	if rl.Allow("storefront") {
		t.Error("late SetRate should not replace an active limiter")
	}
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	rl := New(Rate{RPS: 10, Burst: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// First call should succeed immediately
	start := time.Now()
	if err := rl.Wait(ctx, "storefront"); err != nil {
		t.Errorf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	// Second call should wait ~100ms (1/10 rps)
	start = time.Now()
	if err := rl.Wait(ctx, "storefront"); err != nil {
		t.Errorf("second Wait() failed: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 80*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("second Wait() took %v, want ~100ms", elapsed)
	}
}

func TestKeyedRateLimiter_WaitContextCancelled(t *testing.T) {
	rl := New(Rate{RPS: 0.1, Burst: 1}) // 1 request per 10 seconds

	// Exhaust the burst
	rl.Allow("steamspy")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "steamspy"); err == nil {
		t.Error("Wait() should fail when context canceled")
	}
}
