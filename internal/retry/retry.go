// Package retry re-fetches a dataset when the failure looks transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/amishk599/datajobs/internal/model"
)

// maxDelay caps the exponential backoff. A server-sent Retry-After is not capped.
const maxDelay = 2 * time.Minute

// Policy says how often and how patiently a fetch is repeated.
type Policy struct {
	Retries   int           // extra attempts after the first failure
	BaseDelay time.Duration // wait before the first retry, doubled per retry
}

// Delay is the wait before retry number n (1-based) after err.
func (p Policy) Delay(n int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	d := p.BaseDelay << (n - 1)
	if d <= 0 || d > maxDelay {
		d = maxDelay
	}
	// +-30% jitter so parallel dashboards do not hit the host together
	spread := float64(d) * 0.3
	return time.Duration(float64(d) + (rand.Float64()*2-1)*spread)
}

// Retryable reports whether fetching again could give a different answer.
// Throttling (429), server errors and network failures qualify; client
// errors, missing files and cancellation do not.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, fs.ErrNotExist):
		return false
	}
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	return true
}

// Ensure Source implements model.Source.
var _ model.Source = (*Source)(nil)

// Source wraps another model.Source and repeats failed fetches per its Policy.
type Source struct {
	inner  model.Source
	policy Policy
	logger *slog.Logger
}

// New wraps inner with policy.
func New(inner model.Source, policy Policy, logger *slog.Logger) *Source {
	return &Source{inner: inner, policy: policy, logger: logger}
}

// Fetch returns the first successful fetch, the first permanent error, or the
// last transient error once the retries are spent.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	for n := 0; ; n++ {
		data, err := s.inner.Fetch(ctx)
		if err == nil {
			return data, nil
		}
		if !Retryable(err) || n >= s.policy.Retries {
			return nil, err
		}

		delay := s.policy.Delay(n+1, err)
		s.logger.Warn("dataset fetch failed, retrying",
			"retry", n+1,
			"of", s.policy.Retries,
			"delay", delay.Round(time.Millisecond),
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("fetch dataset: %w", ctx.Err())
		case <-timer.C:
		}
	}
}
