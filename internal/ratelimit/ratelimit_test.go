package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_SameHost_EnforcesMinDelay(t *testing.T) {
	limiter := NewHostLimiter(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	if err := limiter.Wait(ctx, "example.com"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "example.com"); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_DifferentHosts_NoCrossBlocking(t *testing.T) {
	limiter := NewHostLimiter(200 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "a.example.com"); err != nil {
		t.Fatalf("first host wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "b.example.com"); err != nil {
		t.Fatalf("second host wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected near-instant wait for another host, got %v", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	limiter := NewHostLimiter(5 * time.Second) // long delay

	// First call to seed the last-call time.
	if err := limiter.Wait(context.Background(), "example.com"); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	if err := limiter.Wait(ctx, "example.com"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

func TestWait_ZeroDelayNeverBlocks(t *testing.T) {
	limiter := NewHostLimiter(0)
	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(context.Background(), "example.com"); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected no waiting, got %v", elapsed)
	}
}

// --- Mock for RateLimitedSource test ---

type recordingSource struct {
	calls int
}

func (s *recordingSource) Fetch(_ context.Context) ([]byte, error) {
	s.calls++
	return []byte("work_year\n2023\n"), nil
}

func TestRateLimitedSource_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewHostLimiter(100 * time.Millisecond)
	inner := &recordingSource{}
	src := NewRateLimitedSource(inner, limiter, "https://example.com/jobs_in_data.csv")
	ctx := context.Background()

	if src.Host() != "example.com" {
		t.Errorf("Host() = %q, want example.com", src.Host())
	}

	// First call seeds the limiter, then delegates.
	if _, err := src.Fetch(ctx); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner source calls = %d, want 1", inner.calls)
	}

	// Second call should wait for the limiter.
	start := time.Now()
	if _, err := src.Fetch(ctx); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	elapsed := time.Since(start)

	if inner.calls != 2 {
		t.Fatalf("inner source calls = %d, want 2", inner.calls)
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second fetch, got %v", elapsed)
	}
}

func TestRateLimitedSource_NotAURL(t *testing.T) {
	src := NewRateLimitedSource(&recordingSource{}, NewHostLimiter(0), "jobs.csv")
	if src.Host() != "jobs.csv" {
		t.Errorf("Host() = %q, want the raw value", src.Host())
	}
}
