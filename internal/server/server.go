// Package server exposes the reduction pipeline over HTTP.
//
// DESIGN: Thin service wrapper around pipeline.Trim:
//   - POST /v1/trim        reduce a text, return stats (+savings on request)
//   - POST /v1/trim/body   reduce message contents inside a raw LLM request body
//   - POST /v1/savings     price an original/compressed pair
//   - GET  /v1/original/{id}  recover pre-trim text by trim ID
//   - GET  /v1/history     recent runs and totals from the ledger
//   - GET  /v1/metrics     operational counters
//   - GET  /v1/stream      websocket: one trim per inbound frame
//   - GET  /healthz        liveness
//
// Middleware chain (applied in order): panic recovery → per-IP rate
// limit → request logging → security headers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/compresr/prompt-trim/internal/config"
	"github.com/compresr/prompt-trim/internal/history"
	"github.com/compresr/prompt-trim/internal/monitoring"
	"github.com/compresr/prompt-trim/internal/pricing"
	"github.com/compresr/prompt-trim/internal/store"
	"github.com/compresr/prompt-trim/internal/tokencount"
)

// Header names used by the service.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderTrimID    = "X-Trim-ID"
)

// Server is the prompt-trim HTTP service.
type Server struct {
	cfg         *config.Config
	httpServer  *http.Server
	store       store.Store
	counter     tokencount.Counter
	prices      pricing.Table
	ledger      *history.Ledger
	metrics     *monitoring.MetricsCollector
	rateLimiter *rateLimiter
}

// New creates a server from config with the default token counter.
func New(cfg *config.Config) *Server {
	return NewWithCounter(cfg, tokencount.Default())
}

// NewWithCounter creates a server with an injected token counter. The
// ledger is nil when history is disabled; the price table falls back to
// the built-in one when the configured file cannot be loaded.
func NewWithCounter(cfg *config.Config, counter tokencount.Counter) *Server {
	logger := monitoring.Component("server")

	prices := pricing.Default()
	if cfg.Pricing.Path != "" {
		loaded, err := pricing.Load(cfg.Pricing.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Pricing.Path).Msg("price table not loaded, using built-in")
		} else {
			prices = loaded
		}
	}

	var ledger *history.Ledger
	if cfg.History.Enabled {
		l, err := history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.History.Path).Msg("history disabled: ledger not opened")
		} else {
			ledger = l
		}
	}

	s := &Server{
		cfg:         cfg,
		store:       store.NewMemoryStore(cfg.Store.OriginalTTL, cfg.Store.ReducedTTL),
		counter:     counter,
		prices:      prices,
		ledger:      ledger,
		metrics:     monitoring.NewMetricsCollector(),
		rateLimiter: newRateLimiter(cfg.Server.RateLimit),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/trim", s.handleTrim)
	mux.HandleFunc("POST /v1/trim/body", s.handleTrimBody)
	mux.HandleFunc("POST /v1/savings", s.handleSavings)
	mux.HandleFunc("GET /v1/original/{id}", s.handleOriginal)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("GET /v1/metrics", s.handleMetrics)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var handler http.Handler = mux
	handler = s.security(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.rateLimit(handler)
	handler = s.panicRecovery(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// Start runs the HTTP server until Shutdown or failure.
func (s *Server) Start() error {
	log.Info().
		Int("port", s.cfg.Server.Port).
		Str("counter", s.counter.Name()).
		Bool("history", s.ledger != nil).
		Msg("prompt-trim server listening")

	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections and releases resources.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if s.ledger != nil {
		if cerr := s.ledger.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Metrics exposes the collector (used by tests and the CLI).
func (s *Server) Metrics() *monitoring.MetricsCollector { return s.metrics }

// writeJSON writes a JSON response body with status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, msg string, status int) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// recordRun pushes a completed trim into the ledger, best-effort.
func (s *Server) recordRun(ctx context.Context, rec history.Record) {
	if s.ledger == nil {
		return
	}
	rec.Timestamp = time.Now().UTC()
	if err := s.ledger.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("history record failed")
	}
}
