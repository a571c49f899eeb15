package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"screener/internal/config"
	"screener/internal/metrics"
	"screener/internal/scanner"
	"screener/internal/score"
	"screener/pkg/model"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server represents the HTTP API server
type Server struct {
	echo           *echo.Echo
	scanner        *scanner.Scanner
	profiles       score.Profiles
	defaultProfile string
	maxSymbols     int
	threshold      float64
	latest         func() *model.ScanResult
	log            zerolog.Logger
}

// NewServer creates the API server. gatherer backs /metrics; nil uses the
// default Prometheus gatherer.
func NewServer(cfg *config.Config, sc *scanner.Scanner, log zerolog.Logger, rec *metrics.Recorder, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 120 * time.Second // scans are paced and can run long
	e.Server.IdleTimeout = 120 * time.Second

	s := &Server{
		echo:           e,
		scanner:        sc,
		profiles:       cfg.Profiles,
		defaultProfile: cfg.DefaultProfile,
		maxSymbols:     cfg.Scanner.MaxSymbols,
		threshold:      cfg.ZigZag.Threshold,
		log:            log.With().Str("component", "web").Logger(),
	}

	e.Use(recoverer(s.log))
	e.Use(requestLogging(s.log, rec))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	api := e.Group("/api")
	api.GET("/scan", s.handleScan)
	api.GET("/scan/latest", s.handleLatest)
	api.GET("/symbols/:symbol/analysis", s.handleAnalysis)
	api.GET("/profiles", s.handleProfiles)
	api.GET("/market", s.handleMarket)

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return s
}

// SetLatest installs the source for /api/scan/latest, usually a watch loop
func (s *Server) SetLatest(fn func() *model.ScanResult) {
	s.latest = fn
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on port until Shutdown is called
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Info().Str("addr", addr).Msg("starting screener API")

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("screener API stopped")
	return nil
}
