// Package server exposes the page replacement simulator over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sibexico/pagesim/paging"
)

// shutdownTimeout bounds how long Run waits for in-flight requests
const shutdownTimeout = 5 * time.Second

// Server is the HTTP front end of the simulator.
type Server struct {
	config  *paging.Config
	logger  *slog.Logger
	metrics *paging.Metrics
	prom    *promMetrics

	mux     *http.ServeMux
	handler http.Handler
}

// New builds a server from a validated configuration. A nil logger
// discards output.
func New(cfg *paging.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		cfg = paging.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		config:  cfg.Clone(),
		logger:  logger,
		metrics: paging.NewMetrics(),
		mux:     http.NewServeMux(),
	}
	s.prom = newPromMetrics(s.metrics)

	s.setupRoutes()
	s.setupMiddleware()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /simulate", s.handleSimulate)
	s.mux.HandleFunc("POST /simulate_all", s.handleSimulateAll)

	if s.config.EnableMetrics {
		s.mux.Handle("GET /metrics", s.prom.handler())
	}
}

func (s *Server) setupMiddleware() {
	s.handler = Chain(s.mux,
		RecoveryMiddleware(s.logger),
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger),
		MetricsMiddleware(s.prom),
		CORSMiddleware(s.config.AllowedOrigins),
		RateLimitMiddleware(s.config.RateLimit, s.config.RateBurst, s.config.TrustProxyHeaders),
	)
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the simulator counters fed by this server.
func (s *Server) Metrics() *paging.Metrics {
	return s.metrics
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.config.ReadTimeout(),
		ReadHeaderTimeout: s.config.ReadTimeout(),
		WriteTimeout:      s.config.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", slog.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("HTTP server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.metrics.LogMetrics(s.logger)

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
