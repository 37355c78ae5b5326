// Package stats computes before/after size and cost-savings figures.
//
// DESIGN: Pure functions of the two strings (plus the injected counter
// and price table). Nothing here is persisted; the history package owns
// durability. Negative savings are reported as-is — compression can
// inflate sub-word counts for short or unusual inputs, and clamping would
// hide that.
package stats

import (
	"math"
	"strings"

	"github.com/compresr/prompt-trim/internal/pricing"
	"github.com/compresr/prompt-trim/internal/tokencount"
)

// CompressionStats compares two strings by raw size.
type CompressionStats struct {
	OriginalChars   int `json:"original_chars"`
	CompressedChars int `json:"compressed_chars"`
	OriginalWords   int `json:"original_words"`
	CompressedWords int `json:"compressed_words"`
	// CharReduction is the rounded percentage of characters removed;
	// 0 when the original is empty.
	CharReduction int `json:"char_reduction"`
}

// ModelCost is the cost delta for one model. Output pricing is excluded
// from savings — output length is unaffected by trimming — so OutputCost
// is always 0 and TotalCost equals InputCost.
type ModelCost struct {
	Model      string  `json:"model"`
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// TokenSavings reports sub-word token deltas and per-model cost savings.
type TokenSavings struct {
	OriginalTokens   int         `json:"original_tokens"`
	CompressedTokens int         `json:"compressed_tokens"`
	TokensSaved      int         `json:"tokens_saved"`
	PercentageSaved  float64     `json:"percentage_saved"`
	CostSavings      []ModelCost `json:"cost_savings"`
}

// Compute returns character and word counts plus the rounded character
// reduction percentage. Word counts split on whitespace runs, discarding
// empty fragments.
func Compute(original, compressed string) CompressionStats {
	s := CompressionStats{
		OriginalChars:   len(original),
		CompressedChars: len(compressed),
		OriginalWords:   len(strings.Fields(original)),
		CompressedWords: len(strings.Fields(compressed)),
	}
	if s.OriginalChars > 0 {
		s.CharReduction = int(math.Round(
			100 * float64(s.OriginalChars-s.CompressedChars) / float64(s.OriginalChars)))
	}
	return s
}

// CalculateTokenSavings counts both strings with the collaborator and
// prices the delta against every model in the table. TokensSaved may be
// negative; it is never clamped. PercentageSaved is 0 when the original
// counts to 0 (which also covers counter failure).
func CalculateTokenSavings(original, compressed string, counter tokencount.Counter, table pricing.Table) TokenSavings {
	originalTokens := tokencount.Count(counter, original)
	compressedTokens := tokencount.Count(counter, compressed)

	saved := originalTokens - compressedTokens

	s := TokenSavings{
		OriginalTokens:   originalTokens,
		CompressedTokens: compressedTokens,
		TokensSaved:      saved,
		CostSavings:      make([]ModelCost, 0, len(table)),
	}
	if originalTokens != 0 {
		s.PercentageSaved = 100 * float64(saved) / float64(originalTokens)
	}

	for _, model := range table.Models() {
		price, _ := table.Lookup(model)
		inputCost := float64(saved) * price.Input / 1_000_000
		s.CostSavings = append(s.CostSavings, ModelCost{
			Model:      model,
			InputCost:  inputCost,
			OutputCost: 0,
			TotalCost:  inputCost,
		})
	}
	return s
}
