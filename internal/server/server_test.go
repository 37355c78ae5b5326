package server

// HTTP surface tests run the full middleware chain against the mux via
// httptest. The heuristic token counter is injected so nothing reaches
// out for encoding tables.

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compresr/prompt-trim/internal/config"
	"github.com/compresr/prompt-trim/internal/tokencount"
)

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.RateLimit = 1000
	for _, m := range mutate {
		m(cfg)
	}
	s := NewWithCounter(cfg, tokencount.HeuristicCounter{})
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doJSON(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

// TestTrimEndpoint verifies the trim round trip: reduction, stats,
// trim ID issuance, and original recovery.
func TestTrimEndpoint(t *testing.T) {
	s := newTestServer(t)
	original := "The quick brown fox jumps over the lazy dog"

	rec := doJSON(t, s, http.MethodPost, "/v1/trim", TrimRequest{Text: original})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TrimResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "quickbrownfoxjumpslazydog", resp.Reduced)
	assert.Equal(t, 43, resp.Stats.OriginalChars)
	assert.Equal(t, 25, resp.Stats.CompressedChars)
	assert.False(t, resp.CacheHit)
	assert.Nil(t, resp.Savings)
	require.NotEmpty(t, resp.TrimID)
	assert.Equal(t, resp.TrimID, rec.Header().Get(HeaderTrimID))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	// original recoverable by trim ID
	rec = doJSON(t, s, http.MethodGet, "/v1/original/"+resp.TrimID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recovered map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recovered))
	assert.Equal(t, original, recovered["original"])
}

// TestTrimEndpointCacheHit verifies identical (text, options) pairs are
// served from the reduction cache with fresh trim IDs.
func TestTrimEndpointCacheHit(t *testing.T) {
	s := newTestServer(t)
	req := TrimRequest{Text: "do not repeat the work"}

	var first, second TrimResponse
	rec := doJSON(t, s, http.MethodPost, "/v1/trim", req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	rec = doJSON(t, s, http.MethodPost, "/v1/trim", req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	assert.False(t, first.CacheHit)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Reduced, second.Reduced)
	assert.NotEqual(t, first.TrimID, second.TrimID)
}

// TestTrimEndpointSavings verifies savings arithmetic with the injected
// heuristic counter (runes/4).
func TestTrimEndpointSavings(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/trim", TrimRequest{
		Text:           "The quick brown fox jumps over the lazy dog",
		IncludeSavings: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TrimResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Savings)
	assert.Equal(t, 10, resp.Savings.OriginalTokens)
	assert.Equal(t, 6, resp.Savings.CompressedTokens)
	assert.Equal(t, 4, resp.Savings.TokensSaved)
	assert.InDelta(t, 40.0, resp.Savings.PercentageSaved, 1e-9)
	assert.NotEmpty(t, resp.Savings.CostSavings)
}

// TestTrimEndpointBadJSON verifies malformed bodies are rejected.
func TestTrimEndpointBadJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/trim", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestSavingsEndpoint verifies pricing an already-compressed pair.
func TestSavingsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/savings", SavingsRequest{
		Original:   "aaaaaaaa",
		Compressed: "aaaa",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var savings struct {
		OriginalTokens   int     `json:"original_tokens"`
		CompressedTokens int     `json:"compressed_tokens"`
		TokensSaved      int     `json:"tokens_saved"`
		PercentageSaved  float64 `json:"percentage_saved"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &savings))
	assert.Equal(t, 2, savings.OriginalTokens)
	assert.Equal(t, 1, savings.CompressedTokens)
	assert.Equal(t, 1, savings.TokensSaved)
	assert.InDelta(t, 50.0, savings.PercentageSaved, 1e-9)
}

// TestOriginalUnknownID verifies recovery of an unknown trim ID is 404.
func TestOriginalUnknownID(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/original/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestHealthEndpoint verifies the liveness probe.
func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// TestMetricsEndpoint verifies counters move after a trim.
func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/v1/trim", TrimRequest{Text: "the cat and the hat"})

	rec := doJSON(t, s, http.MethodGet, "/v1/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var m map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, int64(1), m["trims"])
	assert.Equal(t, int64(1), m["cache_misses"])
	assert.Positive(t, m["chars_saved"])
}

// TestHistoryEndpoint verifies ledger-backed history, and the 404 when
// history is disabled.
func TestHistoryEndpoint(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.History.Enabled = true
		c.History.Path = filepath.Join(t.TempDir(), "ledger.db")
	})

	doJSON(t, s, http.MethodPost, "/v1/trim", TrimRequest{Text: "the cat and the hat"})

	rec := doJSON(t, s, http.MethodGet, "/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Totals struct {
			Runs int64 `json:"runs"`
		} `json:"totals"`
		Recent []json.RawMessage `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, int64(1), payload.Totals.Runs)
	assert.Len(t, payload.Recent, 1)

	disabled := newTestServer(t)
	rec = doJSON(t, disabled, http.MethodGet, "/v1/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestRateLimit verifies the per-IP bucket rejects the request after the
// budget is spent.
func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.RateLimit = 2 })

	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, s, http.MethodGet, "/healthz", nil).Code)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

// TestPanicRecovery verifies a handler panic becomes a 500, not a crash.
func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t)
	s.httpServer.Handler = s.panicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// TestSecurityHeaders verifies localhost CORS and the preflight
// short-circuit.
func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/trim", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	// foreign origins get headers-only hardening, no CORS grant
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
