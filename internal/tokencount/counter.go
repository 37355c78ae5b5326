// Package tokencount counts sub-word units for savings arithmetic.
//
// DESIGN: The counter is an opaque collaborator — given text, return an
// integer. The tiktoken-backed counter is authoritative; a runes/4
// heuristic stands in when the encoding cannot be initialized (offline
// first run, no cache). Counting failures are caught here, logged, and
// reported as 0 — they never propagate. Callers must treat a reported 0
// as "unknown or genuinely zero"; that ambiguity is part of the contract.
package tokencount

import (
	"fmt"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"
)

// Encoding used for all providers. cl100k_base is the GPT-4 family
// encoding and a good approximation across vendors.
const Encoding = "cl100k_base"

// Counter counts sub-word units in text.
type Counter interface {
	// Count returns the number of units in text; 0 on failure.
	Count(text string) int

	// Name identifies the counting method for logging.
	Name() string
}

// TiktokenCounter counts with the cl100k_base BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter initializes the encoding. The encoding tables are
// fetched and cached by the tiktoken library on first use.
func NewTiktokenCounter() (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("tokencount: get encoding %s: %w", Encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the token count of text.
func (c *TiktokenCounter) Count(text string) int {
	if c == nil || c.enc == nil {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Name returns the counting method identifier.
func (c *TiktokenCounter) Name() string { return "tiktoken/" + Encoding }

// HeuristicCounter estimates tokens as rune count / 4, the usual
// English-text rule of thumb. Always available, never fails.
type HeuristicCounter struct{}

// Count returns the estimated token count of text.
func (HeuristicCounter) Count(text string) int {
	if len(text) == 0 {
		return 0
	}
	return utf8.RuneCountInString(text) / 4
}

// Name returns the counting method identifier.
func (HeuristicCounter) Name() string { return "heuristic/runes4" }

// Default returns the tiktoken counter, falling back to the heuristic
// when the encoding cannot be initialized. The fallback is logged once.
func Default() Counter {
	c, err := NewTiktokenCounter()
	if err != nil {
		log.Warn().Err(err).Msg("tiktoken unavailable, falling back to heuristic counting")
		return HeuristicCounter{}
	}
	return c
}

// Count counts text with the given counter, shielding callers from any
// counter panic. A failed count is logged and reported as 0.
func Count(c Counter, text string) (n int) {
	if c == nil {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("counter", c.Name()).Msg("token counting failed")
			n = 0
		}
	}()
	return c.Count(text)
}
