package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/dataset/datasettest"
	"github.com/amishk599/datajobs/internal/reload"
)

// --- Mock implementations ---

type CountingReloader struct {
	calls atomic.Int32
	err   error
}

func (r *CountingReloader) Load(_ context.Context) (bool, error) {
	r.calls.Add(1)
	return r.err == nil, r.err
}

func (r *CountingReloader) Source() string { return "test" }

type staticSource struct{ data []byte }

func (s staticSource) Fetch(_ context.Context) ([]byte, error) { return s.data, nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, s *Scheduler, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(d)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
}

// --- Tests ---

func TestRun_CancelReturnsPromptly(t *testing.T) {
	r := &CountingReloader{}
	runFor(t, NewScheduler(r, time.Hour, discardLogger()), 100*time.Millisecond)

	if got := r.calls.Load(); got != 1 {
		t.Errorf("reload calls = %d, want 1 (immediate cycle only)", got)
	}
}

func TestRun_ReloadsEveryInterval(t *testing.T) {
	r := &CountingReloader{}
	// Allow time for at least two full passes (reload → sleep interval → reload).
	runFor(t, NewScheduler(r, 100*time.Millisecond, discardLogger()), 250*time.Millisecond)

	if got := r.calls.Load(); got < 2 {
		t.Errorf("reload calls = %d, want >= 2", got)
	}
}

func TestRun_ErrorDoesNotStopLoop(t *testing.T) {
	r := &CountingReloader{err: errors.New("fetch failed")}
	runFor(t, NewScheduler(r, 50*time.Millisecond, discardLogger()), 180*time.Millisecond)

	if got := r.calls.Load(); got < 2 {
		t.Errorf("reload calls = %d, want >= 2 after errors", got)
	}
}

func TestRun_WithLoader(t *testing.T) {
	l := reload.NewLoader(staticSource{data: datasettest.SampleCSV}, dataset.Options{Source: "sample"}, discardLogger())
	runFor(t, NewScheduler(l, time.Hour, discardLogger()), 200*time.Millisecond)

	if l.Current() == nil {
		t.Fatal("expected the immediate cycle to publish an Analysis")
	}
}
