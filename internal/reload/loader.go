// Package reload owns the dataset load pipeline: fetch, skip unchanged
// content, rebuild the analysis and publish it.
package reload

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/model"
)

// Loader fetches the dataset from its source and keeps the latest Analysis.
// It is safe for concurrent use: readers call Current while a reload runs.
type Loader struct {
	source model.Source
	opts   dataset.Options
	logger *slog.Logger

	mu       sync.RWMutex
	current  *dataset.Analysis
	digest   [sha256.Size]byte
	loaded   bool
	onChange []func(*dataset.Analysis)

	// serialises Load so two reloads never build at once
	loadMu sync.Mutex
}

// NewLoader creates a loader wired with its source and build options.
func NewLoader(source model.Source, opts dataset.Options, logger *slog.Logger) *Loader {
	return &Loader{
		source: source,
		opts:   opts,
		logger: logger,
	}
}

// Load runs one cycle: fetch, compare with the previous content, rebuild and
// publish. It reports whether a new Analysis was published. On error the
// previous Analysis stays current.
func (l *Loader) Load(ctx context.Context) (bool, error) {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	start := time.Now()
	data, err := l.source.Fetch(ctx)
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", l.opts.Source, err)
	}

	sum := sha256.Sum256(data)
	l.mu.RLock()
	unchanged := l.loaded && sum == l.digest
	l.mu.RUnlock()
	if unchanged {
		l.logger.Debug("dataset unchanged", "source", l.opts.Source)
		return false, nil
	}

	a, err := dataset.Build(data, l.opts)
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", l.opts.Source, err)
	}

	l.mu.Lock()
	l.current = a
	l.digest = sum
	l.loaded = true
	listeners := append([]func(*dataset.Analysis){}, l.onChange...)
	l.mu.Unlock()

	l.logger.Debug("built analysis",
		"source", l.opts.Source,
		"id", a.ID,
		"took", time.Since(start).Round(time.Millisecond),
	)

	for _, fn := range listeners {
		fn(a)
	}
	return true, nil
}

// Current returns the latest Analysis, or nil before the first successful Load.
func (l *Loader) Current() *dataset.Analysis {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers fn to run after every published Analysis.
func (l *Loader) OnChange(fn func(*dataset.Analysis)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Source returns the human-readable dataset origin.
func (l *Loader) Source() string {
	return l.opts.Source
}
