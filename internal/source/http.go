package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/datajobs/internal/model"
)

// maxDatasetBytes caps remote downloads.
const maxDatasetBytes = 64 << 20

// Ensure HTTPSource implements model.Source.
var _ model.Source = (*HTTPSource)(nil)

// HTTPSource downloads the dataset from a URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source that GETs url with client.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	return &HTTPSource{url: url, client: client}
}

// Fetch downloads the CSV. Non-2xx responses are returned as *model.HTTPError
// so the retry layer can decide whether to try again.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", s.url, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("fetch dataset %s", s.url),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read dataset body: %w", err)
	}
	if len(data) > maxDatasetBytes {
		return nil, fmt.Errorf("dataset %s is larger than %d bytes", s.url, maxDatasetBytes)
	}
	return data, nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
