package source

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/amishk599/datajobs/internal/config"
	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/ratelimit"
	"github.com/amishk599/datajobs/internal/retry"
)

// New picks the source for cfg. Remote sources are rate limited per host and
// wrapped with retries, so every attempt also waits for the limiter.
func New(cfg config.DatasetConfig, logger *slog.Logger) model.Source {
	if !cfg.IsRemote() {
		return NewFileSource(cfg.Path)
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	limiter := ratelimit.NewHostLimiter(cfg.MinFetchGap)

	limited := ratelimit.NewRateLimitedSource(NewHTTPSource(cfg.Path, httpClient), limiter, cfg.Path)
	logger.Debug("remote dataset",
		"host", limited.Host(),
		"min_fetch_gap", cfg.MinFetchGap,
		"retries", cfg.Retries,
	)
	return retry.New(limited, retry.Policy{Retries: cfg.Retries, BaseDelay: cfg.RetryDelay}, logger)
}
