package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/datajobs/internal/config"
	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/retry"
)

func TestFileSource_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	if err := os.WriteFile(path, []byte("work_year\n2023\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileSource(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "work_year\n2023\n" {
		t.Errorf("got %q", got)
	}
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "none.csv")).Fetch(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestHTTPSource_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("work_year\n2022\n"))
	}))
	defer srv.Close()

	got, err := NewHTTPSource(srv.URL, srv.Client()).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "work_year\n2022\n" {
		t.Errorf("got %q", got)
	}
}

func TestHTTPSource_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, srv.Client()).Fetch(context.Background())
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", httpErr.RetryAfter)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := map[string]time.Duration{
		"":        0,
		"30":      30 * time.Second,
		"garbage": 0,
	}
	for in, want := range tests {
		if got := parseRetryAfter(in); got != want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, ok := New(config.DatasetConfig{Path: "jobs.csv"}, logger).(*FileSource); !ok {
		t.Error("local path should give a *FileSource")
	}
	remote := config.DatasetConfig{Path: "https://example.com/jobs.csv", Retries: 1, RetryDelay: time.Millisecond}
	if _, ok := New(remote, logger).(*retry.Source); !ok {
		t.Error("URL should give a retrying source")
	}
}

func TestNew_RemoteFetchesThroughLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("work_year\n2023\n"))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	src := New(config.DatasetConfig{Path: srv.URL + "/jobs.csv"}, logger)
	if host := strings.TrimPrefix(srv.URL, "http://"); !strings.Contains(logs.String(), "host="+host) {
		t.Errorf("expected the limiter host %s in %q", host, logs.String())
	}
	for i := 0; i < 2; i++ {
		data, err := src.Fetch(context.Background())
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if string(data) != "work_year\n2023\n" {
			t.Errorf("fetch %d: got %q", i, data)
		}
	}
}
