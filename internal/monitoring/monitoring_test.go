package monitoring

// Telemetry tests: logger construction, request ID plumbing, and the
// counter semantics around negative deltas.

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// TestNewLoggerLevels verifies level parsing with fallback to info.
func TestNewLoggerLevels(t *testing.T) {
	l := NewLogger(LoggerConfig{Level: "debug", Format: "json", Output: "stderr"})
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())

	// unknown level falls back instead of failing
	l = NewLogger(LoggerConfig{Level: "shout"})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())

	l = NewLogger(LoggerConfig{})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}

// TestRequestIDContext verifies the round trip and the empty default.
func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestIDContext(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

// TestMetricsCollector verifies counter movement, including the floor
// on character savings and the absence of one on token savings.
func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector()

	mc.RecordRequest(true, time.Millisecond)
	mc.RecordRequest(false, time.Millisecond)
	mc.RecordTrim(100, 60)
	mc.RecordTrim(10, 25) // inflation: counts the trim, not negative chars
	mc.RecordTokensSaved(10)
	mc.RecordTokensSaved(-3)
	mc.RecordCacheHit()
	mc.RecordCacheMiss()

	got := mc.Stats()
	assert.Equal(t, int64(2), got["requests"])
	assert.Equal(t, int64(1), got["successes"])
	assert.Equal(t, int64(2), got["trims"])
	assert.Equal(t, int64(40), got["chars_saved"])
	assert.Equal(t, int64(7), got["tokens_saved"])
	assert.Equal(t, int64(1), got["cache_hits"])
	assert.Equal(t, int64(1), got["cache_misses"])
}
