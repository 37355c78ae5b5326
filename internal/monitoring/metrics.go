// Package monitoring - metrics.go provides simple counters.
//
// DESIGN: Lightweight in-memory counters for operational metrics:
//   - requests/successes: Total and successful request counts
//   - trims:              Number of reduction operations
//   - chars/tokens saved: Cumulative savings across all trims
//   - cache_hits/misses:  Reduction cache performance
//
// For production, export these to Prometheus or similar.
package monitoring

import (
	"sync/atomic"
	"time"
)

// MetricsCollector collects operational metrics.
type MetricsCollector struct {
	requests    atomic.Int64
	successes   atomic.Int64
	trims       atomic.Int64
	charsSaved  atomic.Int64
	tokensSaved atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordRequest records a request.
func (mc *MetricsCollector) RecordRequest(success bool, _ time.Duration) {
	mc.requests.Add(1)
	if success {
		mc.successes.Add(1)
	}
}

// RecordTrim records a reduction operation and its character delta.
// Negative deltas (inflation) are recorded as zero chars saved.
func (mc *MetricsCollector) RecordTrim(originalChars, compressedChars int) {
	mc.trims.Add(1)
	if d := originalChars - compressedChars; d > 0 {
		mc.charsSaved.Add(int64(d))
	}
}

// RecordTokensSaved accumulates sub-word token savings. Negative values
// are counted as-is so the figure stays honest.
func (mc *MetricsCollector) RecordTokensSaved(saved int) {
	mc.tokensSaved.Add(int64(saved))
}

// RecordCacheHit records a reduction cache hit.
func (mc *MetricsCollector) RecordCacheHit() { mc.cacheHits.Add(1) }

// RecordCacheMiss records a reduction cache miss.
func (mc *MetricsCollector) RecordCacheMiss() { mc.cacheMisses.Add(1) }

// Stats returns current metrics.
func (mc *MetricsCollector) Stats() map[string]int64 {
	return map[string]int64{
		"requests":     mc.requests.Load(),
		"successes":    mc.successes.Load(),
		"trims":        mc.trims.Load(),
		"chars_saved":  mc.charsSaved.Load(),
		"tokens_saved": mc.tokensSaved.Load(),
		"cache_hits":   mc.cacheHits.Load(),
		"cache_misses": mc.cacheMisses.Load(),
	}
}
