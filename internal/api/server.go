// Package api serves classification, recommendations and predictions over
// a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/predict"
)

// Config configures the HTTP server.
type Config struct {
	Addr string `koanf:"addr"`

	// RateLimit is requests per RateWindow per client IP. Zero disables it.
	RateLimit  int           `koanf:"rate_limit"`
	RateWindow time.Duration `koanf:"rate_window"`

	CORSOrigins []string `koanf:"cors_origins"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8080",
		RateLimit:       60,
		RateWindow:      time.Minute,
		CORSOrigins:     []string{"*"},
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %d", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		return errors.New("server.rate_window must be positive when rate limiting is enabled")
	}
	return nil
}

// Server owns the router and its dependencies.
type Server struct {
	cfg       Config
	predictor predict.Predictor
	now       func() time.Time
	handler   http.Handler
}

// NewServer wires the routes. predictor serves POST /api/v1/predict.
func NewServer(cfg Config, predictor predict.Predictor) *Server {
	s := &Server{cfg: cfg, predictor: predictor, now: time.Now}
	s.handler = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.cfg.Addr).Str("predictor", s.predictor.Name()).Msg("api listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
