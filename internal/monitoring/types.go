// Package monitoring - types.go defines shared telemetry types.
//
// DESIGN: These types are used by both server/ and monitoring/ packages.
// Defined here once to avoid duplication and circular imports.
package monitoring

// TrimEvent captures one reduction request through the service.
type TrimEvent struct {
	RequestID        string  `json:"request_id"`
	Timestamp        string  `json:"timestamp"`
	Source           string  `json:"source"` // "api", "body", "stream", "cli"
	Language         string  `json:"language"`
	Stemmer          string  `json:"stemmer,omitempty"`
	OriginalChars    int     `json:"original_chars"`
	CompressedChars  int     `json:"compressed_chars"`
	CharReduction    int     `json:"char_reduction"`
	OriginalTokens   int     `json:"original_tokens,omitempty"`
	CompressedTokens int     `json:"compressed_tokens,omitempty"`
	TokensSaved      int     `json:"tokens_saved,omitempty"`
	PercentageSaved  float64 `json:"percentage_saved,omitempty"`
	CacheHit         bool    `json:"cache_hit"`
	LatencyMs        int64   `json:"latency_ms"`
}

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	Output string `yaml:"output"` // stdout, stderr, or file path
}
