// Package ratelimit spaces out fetches of remote datasets so repeated reloads
// do not hammer the host serving the CSV.
package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/amishk599/datajobs/internal/model"
)

// HostLimiter enforces a minimum delay between fetches from the same host.
type HostLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: host
	minDelay time.Duration
}

// NewHostLimiter creates a limiter that keeps minDelay between consecutive
// fetches from one host. Sources reading from the same host should share it.
func NewHostLimiter(minDelay time.Duration) *HostLimiter {
	return &HostLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until minDelay has passed since the last fetch from host.
// Returns an error if the context is cancelled while waiting.
func (r *HostLimiter) Wait(ctx context.Context, host string) error {
	r.mu.Lock()
	last, ok := r.lastCall[host]
	now := time.Now()

	if !ok || now.Sub(last) >= r.minDelay {
		r.lastCall[host] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - now.Sub(last)
	// Reserve the slot so concurrent callers queue behind this one.
	r.lastCall[host] = last.Add(r.minDelay)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", host, ctx.Err())
	case <-time.After(remaining):
	}
	return nil
}

// RateLimitedSource waits for the host limiter before delegating to the
// wrapped source.
type RateLimitedSource struct {
	inner   model.Source
	limiter *HostLimiter
	host    string
}

// Ensure RateLimitedSource implements model.Source.
var _ model.Source = (*RateLimitedSource)(nil)

// NewRateLimitedSource wraps inner, which reads from rawURL.
func NewRateLimitedSource(inner model.Source, limiter *HostLimiter, rawURL string) *RateLimitedSource {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return &RateLimitedSource{
		inner:   inner,
		limiter: limiter,
		host:    host,
	}
}

// Fetch waits for the limiter, then fetches from the wrapped source.
func (s *RateLimitedSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := s.limiter.Wait(ctx, s.host); err != nil {
		return nil, err
	}
	return s.inner.Fetch(ctx)
}

// Host returns the limiter key for this source.
func (s *RateLimitedSource) Host() string {
	return s.host
}
