// Package httpserver exposes the bot over HTTP: operational probes and
// metrics, plus a small JSON API for positions, stats, and manual sells.
package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/internal/engine"
	"github.com/betzbotz1/betzbotz-bot1/pkg/config"
	"github.com/betzbotz1/betzbotz-bot1/pkg/healthprobe"
)

// TradingService is the slice of the engine the API serves.
type TradingService interface {
	Positions() []engine.TradeRecord
	History() []engine.TradeRecord
	TotalValue() float64
	TotalPnL() float64
	RealizedPnLTotal() float64
	OpenCount() int
	ExecuteSell(ctx context.Context, tokenID string, percent float64) (*engine.SellConfirmation, error)
}

// BalanceProvider reports the wallet's collateral balance.
type BalanceProvider interface {
	GetBalance(ctx context.Context) (float64, error)
}

// ScanStats reports scanner progress.
type ScanStats interface {
	SeenCount() int
}

// Server provides HTTP endpoints for metrics, health checks, and the bot API.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
type Config struct {
	Port          string
	APIKey        string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker
	Trading       TradingService
	Balance       BalanceProvider
	Scanner       ScanStats
	Settings      map[string]interface{}
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Operational routes, never behind auth.
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", cfg.HealthChecker.Health())
	r.Get("/ready", cfg.HealthChecker.Ready())

	h := newAPIHandler(cfg)

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAPIKey(cfg.APIKey, cfg.Logger))

		r.Get("/status", h.handleStatus)
		r.Get("/balance", h.handleBalance)
		r.Get("/positions", h.handlePositions)
		r.Get("/stats", h.handleStats)
		r.Get("/settings", h.handleSettings)
		r.Post("/sell", h.handleSell)
		r.Get("/ws", h.handleWebsocket)
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
	}
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// requireAPIKey rejects /api requests whose X-API-Key header does not
// match the configured key. Auth is disabled when the key is unset or
// still the shipped default; that state is logged loudly instead.
func requireAPIKey(apiKey string, logger *zap.Logger) func(http.Handler) http.Handler {
	enforce := apiKey != "" && apiKey != config.InsecureDefaultAPIKey
	if !enforce {
		logger.Warn("api-auth-disabled",
			zap.String("reason", "API_SECRET_KEY unset or default"))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if enforce && r.Header.Get("X-API-Key") != apiKey {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"invalid or missing API key"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
