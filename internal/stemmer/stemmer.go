// Package stemmer reduces single words to approximate roots.
//
// DESIGN: Three interchangeable rule engines behind one capability:
//   - light:      Porter-style ordered suffix stages with measure gates
//   - extended:   currently identical to light (reserved for a future rule set)
//   - aggressive: one linear rule table, no measure gates, shortest roots
//
// Shared contract across variants: deterministic, a no-op for words
// shorter than 3 characters, and case-preserving — the input's per-character
// case pattern is recorded before stemming and re-applied positionally to
// the result, with positions past the pattern defaulting to lowercase.
package stemmer

import "strings"

// Variant selects a stemming rule engine.
type Variant string

const (
	VariantLight      Variant = "light"
	VariantExtended   Variant = "extended"
	VariantAggressive Variant = "aggressive"
)

// DefaultVariant is used when an unknown variant tag is requested.
const DefaultVariant = VariantLight

// Stemmer reduces a single word to an approximate root.
type Stemmer interface {
	// Stem returns the stemmed word. Case pattern of the input is
	// preserved on the output's corresponding positions.
	Stem(word string) string

	// Name returns the variant tag.
	Name() string
}

// ForVariant resolves a variant tag to a Stemmer. Unknown tags fall back
// to the light variant.
func ForVariant(v Variant) Stemmer {
	switch v {
	case VariantAggressive:
		return &Aggressive{}
	case VariantExtended:
		return &Extended{}
	case VariantLight:
		return &Light{}
	default:
		return &Light{}
	}
}

// ParseVariant normalizes a tag string; unknown tags yield the default.
func ParseVariant(s string) Variant {
	switch Variant(strings.ToLower(s)) {
	case VariantLight, VariantExtended, VariantAggressive:
		return Variant(strings.ToLower(s))
	default:
		return DefaultVariant
	}
}

// casePattern records each character's case as a bit per position.
type casePattern []bool

// recordCase captures the case pattern of word.
func recordCase(word string) casePattern {
	p := make(casePattern, len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		p[i] = 'A' <= c && c <= 'Z'
	}
	return p
}

// apply re-applies the pattern position-by-position. Positions beyond the
// original pattern default to lowercase, so stemming that changes word
// length never gains unexpected uppercase.
func (p casePattern) apply(word string) string {
	b := []byte(word)
	for i := 0; i < len(b); i++ {
		c := b[i]
		if i < len(p) && p[i] {
			if 'a' <= c && c <= 'z' {
				b[i] = c - 'a' + 'A'
			}
		} else {
			if 'A' <= c && c <= 'Z' {
				b[i] = c - 'A' + 'a'
			}
		}
	}
	return string(b)
}

// preserveCase runs transform on the lowercased word and restores the
// recorded case pattern on the result.
func preserveCase(word string, transform func(string) string) string {
	pattern := recordCase(word)
	stemmed := transform(strings.ToLower(word))
	return pattern.apply(stemmed)
}

// isConsonant reports whether word[i] is a consonant. 'y' counts as a
// consonant at position 0 or after a vowel.
func isConsonant(word string, i int) bool {
	switch word[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}
		return !isConsonant(word, i-1)
	}
	return true
}

// measure counts vowel-sequence to consonant-sequence transitions,
// scanning left to right. Used purely as a stemming gate.
func measure(word string) int {
	n := len(word)
	m := 0
	i := 0

	for i < n && isConsonant(word, i) {
		i++
	}
	for i < n {
		for i < n && !isConsonant(word, i) {
			i++
		}
		if i >= n {
			break
		}
		m++
		for i < n && isConsonant(word, i) {
			i++
		}
	}
	return m
}

// hasVowel reports whether the word contains at least one vowel.
func hasVowel(word string) bool {
	for i := 0; i < len(word); i++ {
		if !isConsonant(word, i) {
			return true
		}
	}
	return false
}

// endsDoubleConsonant reports whether the word ends in two identical
// consonants.
func endsDoubleConsonant(word string) bool {
	n := len(word)
	if n < 2 {
		return false
	}
	return word[n-1] == word[n-2] && isConsonant(word, n-1)
}

// endsCVC reports whether the word ends consonant-vowel-consonant where
// the final consonant is not 'w', 'x', or 'y'.
func endsCVC(word string) bool {
	n := len(word)
	if n < 3 {
		return false
	}
	if !isConsonant(word, n-3) || isConsonant(word, n-2) || !isConsonant(word, n-1) {
		return false
	}
	c := word[n-1]
	return c != 'w' && c != 'x' && c != 'y'
}
