package model

import (
	"fmt"
	"strings"
	"time"
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ColumnError reports columns that a table is required to have but does not.
type ColumnError struct {
	Missing []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("missing column(s): %s", strings.Join(e.Missing, ", "))
}
