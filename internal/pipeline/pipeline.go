// Package pipeline orchestrates text reduction: contraction merge →
// tokenize → stopword filter → optional stemming → reassembly.
//
// DESIGN: Trim is total over all string inputs — malformed input degrades
// to fewer tokens, it never fails. Stage order is fixed; each stage
// assumes the previous has run. Surviving tokens keep their original
// relative order.
package pipeline

import (
	"strings"

	"github.com/compresr/prompt-trim/internal/stemmer"
	"github.com/compresr/prompt-trim/internal/stopwords"
	"github.com/compresr/prompt-trim/internal/tokenizer"
)

// Options is the per-invocation configuration. Every toggle acts
// independently; the pipeline applies them in a fixed order.
type Options struct {
	RemoveStopwords   bool            `json:"remove_stopwords" yaml:"remove_stopwords"`
	RemovePunctuation bool            `json:"remove_punctuation" yaml:"remove_punctuation"`
	RemoveSpaces      bool            `json:"remove_spaces" yaml:"remove_spaces"`
	UseStemming       bool            `json:"use_stemming" yaml:"use_stemming"`
	Stemmer           stemmer.Variant `json:"stemmer" yaml:"stemmer"`
	Language          string          `json:"language" yaml:"language"`
}

// DefaultOptions returns the documented defaults: drop stopwords, drop
// spaces, keep punctuation, no stemming, light variant, english.
func DefaultOptions() Options {
	return Options{
		RemoveStopwords:   true,
		RemovePunctuation: false,
		RemoveSpaces:      true,
		UseStemming:       false,
		Stemmer:           stemmer.DefaultVariant,
		Language:          stopwords.DefaultLanguage,
	}
}

// Trim reduces text according to opts. Pure, deterministic, and total:
// the empty string, punctuation-only input, and non-ASCII scripts all
// come back as strings, never as a failure.
func Trim(text string, opts Options) string {
	merged := tokenizer.MergeContractions(text)
	tokens := tokenizer.Tokenize(merged)
	if len(tokens) == 0 {
		return ""
	}

	stops := stopwords.ForLanguage(opts.Language)

	var stem stemmer.Stemmer
	if opts.UseStemming {
		stem = stemmer.ForVariant(opts.Stemmer)
	}

	kept := make([]tokenizer.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsPunctuation() {
			if !opts.RemovePunctuation {
				kept = append(kept, tok)
			}
			continue
		}
		if opts.RemoveStopwords && tok.IsWord() {
			lower := strings.ToLower(tok.String())
			if stops.Contains(lower) && !stopwords.IsNegation(lower) {
				continue
			}
		}
		if stem != nil && tok.IsWord() {
			tok = tokenizer.Token(stem.Stem(tok.String()))
		}
		kept = append(kept, tok)
	}

	return reassemble(kept, opts.RemoveSpaces)
}

// reassemble joins surviving tokens. With dropSpaces, tokens are
// concatenated with no separator at all — the primary character-reduction
// mechanism. Otherwise tokens are joined with single spaces, except that
// no space is inserted before a punctuation token; a preceding
// punctuation token still gets a following space.
func reassemble(tokens []tokenizer.Token, dropSpaces bool) string {
	var b strings.Builder

	for i, tok := range tokens {
		if !dropSpaces && i > 0 && !tok.IsPunctuation() {
			b.WriteByte(' ')
		}
		b.WriteString(tok.String())
	}
	return b.String()
}
