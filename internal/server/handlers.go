// HTTP handlers for the trim, savings, recovery, and introspection routes.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/compresr/prompt-trim/internal/history"
	"github.com/compresr/prompt-trim/internal/monitoring"
	"github.com/compresr/prompt-trim/internal/pipeline"
	"github.com/compresr/prompt-trim/internal/stats"
	"github.com/compresr/prompt-trim/internal/store"
)

// maxRequestBody caps request body reads (4 MiB).
const maxRequestBody = 4 << 20

// TrimRequest is the POST /v1/trim payload. Options falls back to the
// server's configured defaults when absent.
type TrimRequest struct {
	Text           string            `json:"text"`
	Options        *pipeline.Options `json:"options,omitempty"`
	IncludeSavings bool              `json:"include_savings,omitempty"`
}

// TrimResponse is the POST /v1/trim reply.
type TrimResponse struct {
	TrimID   string                 `json:"trim_id"`
	Reduced  string                 `json:"reduced"`
	Stats    stats.CompressionStats `json:"stats"`
	Savings  *stats.TokenSavings    `json:"savings,omitempty"`
	CacheHit bool                   `json:"cache_hit"`
}

// SavingsRequest is the POST /v1/savings payload.
type SavingsRequest struct {
	Original   string `json:"original"`
	Compressed string `json:"compressed"`
}

// optionsFingerprint encodes options for the reduction cache key.
func optionsFingerprint(opts pipeline.Options) string {
	b, err := json.Marshal(opts)
	if err != nil {
		return ""
	}
	return string(b)
}

// storeCacheKey derives the reduction-cache key for text under opts.
func storeCacheKey(text string, opts pipeline.Options) string {
	return store.CacheKey(text, optionsFingerprint(opts))
}

// trimOnce runs the pipeline through the reduction cache.
func (s *Server) trimOnce(text string, opts pipeline.Options) (reduced string, cacheHit bool) {
	key := storeCacheKey(text, opts)
	if cached, ok := s.store.GetReduced(key); ok {
		s.metrics.RecordCacheHit()
		return cached, true
	}
	s.metrics.RecordCacheMiss()

	reduced = pipeline.Trim(text, opts)
	_ = s.store.SetReduced(key, reduced)
	return reduced, false
}

// handleTrim reduces one text.
func (s *Server) handleTrim(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var req TrimRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	opts := s.cfg.Trim
	if req.Options != nil {
		opts = *req.Options
	}

	reduced, cacheHit := s.trimOnce(req.Text, opts)

	resp := TrimResponse{
		TrimID:   uuid.New().String(),
		Reduced:  reduced,
		Stats:    stats.Compute(req.Text, reduced),
		CacheHit: cacheHit,
	}
	_ = s.store.SetOriginal(resp.TrimID, req.Text)
	s.metrics.RecordTrim(resp.Stats.OriginalChars, resp.Stats.CompressedChars)

	rec := history.Record{
		Source:          "api",
		Language:        opts.Language,
		OriginalChars:   resp.Stats.OriginalChars,
		CompressedChars: resp.Stats.CompressedChars,
		OriginalWords:   resp.Stats.OriginalWords,
		CompressedWords: resp.Stats.CompressedWords,
	}
	if opts.UseStemming {
		rec.Stemmer = string(opts.Stemmer)
	}

	if req.IncludeSavings {
		savings := stats.CalculateTokenSavings(req.Text, reduced, s.counter, s.prices)
		resp.Savings = &savings
		s.metrics.RecordTokensSaved(savings.TokensSaved)
		rec.OriginalTokens = savings.OriginalTokens
		rec.CompressedTokens = savings.CompressedTokens
		rec.TokensSaved = savings.TokensSaved
	}
	s.recordRun(r.Context(), rec)

	event := monitoring.TrimEvent{
		RequestID:       monitoring.RequestIDFromContext(r.Context()),
		Timestamp:       start.UTC().Format(time.RFC3339),
		Source:          rec.Source,
		Language:        rec.Language,
		Stemmer:         rec.Stemmer,
		OriginalChars:   resp.Stats.OriginalChars,
		CompressedChars: resp.Stats.CompressedChars,
		CharReduction:   resp.Stats.CharReduction,
		CacheHit:        cacheHit,
		LatencyMs:       time.Since(start).Milliseconds(),
	}
	if resp.Savings != nil {
		event.OriginalTokens = resp.Savings.OriginalTokens
		event.CompressedTokens = resp.Savings.CompressedTokens
		event.TokensSaved = resp.Savings.TokensSaved
		event.PercentageSaved = resp.Savings.PercentageSaved
	}
	log.Debug().Interface("event", event).Msg("trim completed")

	w.Header().Set(HeaderTrimID, resp.TrimID)
	s.writeJSON(w, http.StatusOK, resp)
}

// handleSavings prices an original/compressed pair without trimming.
func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	var req SavingsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	savings := stats.CalculateTokenSavings(req.Original, req.Compressed, s.counter, s.prices)
	s.writeJSON(w, http.StatusOK, savings)
}

// handleOriginal recovers pre-trim text by trim ID. 404 after TTL expiry
// is expected — reduction is lossy and recovery is best-effort.
func (s *Server) handleOriginal(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.writeError(w, "trim id required", http.StatusBadRequest)
		return
	}

	original, ok := s.store.GetOriginal(id)
	if !ok {
		s.writeError(w, "unknown or expired trim id", http.StatusNotFound)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"trim_id": id, "original": original})
}

// handleHistory returns recent ledger entries and totals.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		s.writeError(w, "history is disabled", http.StatusNotFound)
		return
	}

	recent, err := s.ledger.Recent(r.Context(), 50)
	if err != nil {
		s.writeError(w, "history query failed", http.StatusInternalServerError)
		return
	}
	totals, err := s.ledger.Totals(r.Context())
	if err != nil {
		s.writeError(w, "history query failed", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"totals": totals,
		"recent": recent,
	})
}

// handleMetrics returns operational counters.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.metrics.Stats())
}

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
