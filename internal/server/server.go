// Package server exposes the dashboard pages, their charts and the job lookup
// over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/amishk599/datajobs/internal/dataset"
)

// Provider hands out the latest analysed dataset. It returns nil until the
// first load finishes.
type Provider interface {
	Current() *dataset.Analysis
}

// Options configures a Server.
type Options struct {
	Address     string
	ChartWidth  float64 // inches
	ChartHeight float64 // inches
	TableRows   int     // default ?rows for page JSON, zero keeps every row
}

const shutdownTimeout = 5 * time.Second

// Server is the HTTP dashboard.
type Server struct {
	opts   Options
	data   Provider
	logger *slog.Logger
	app    *echo.Echo
}

var _ http.Handler = (*Server)(nil)

// New builds a Server with every route registered.
func New(data Provider, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		opts:   opts,
		data:   data,
		logger: logger,
		app:    echo.New(),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	v := newRequestValidator()
	s.app.Validator = v
	s.app.HTTPErrorHandler = newHTTPErrorHandler(v.tr, s.logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.Recover())
	s.app.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	s.app.GET("/", s.index)
	s.app.GET("/healthz", s.health)
	s.app.GET("/pages", s.listPages)
	s.app.GET("/pages/:id", s.showPage)
	s.app.GET("/pages/:id/charts/:file", s.chartPNG)
	s.app.GET("/jobs", s.searchJobs)
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving dashboard", "address", s.opts.Address)
		errc <- s.app.Start(s.opts.Address)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.opts.Address, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		s.logger.Info("server stopped")
		return nil
	}
}

// analysis returns the current dataset or a 503.
func (s *Server) analysis() (*dataset.Analysis, error) {
	a := s.data.Current()
	if a == nil {
		return nil, errNotLoaded
	}
	return a, nil
}
