// Aggressive variant: a single linear pass over one ordered rule table.
// The first matching suffix is applied and the pass stops. No measure
// gates — the only guard is that at least 2 characters of stem remain.
// Produces shorter, less faithful roots for maximum compression.
package stemmer

import "strings"

// Aggressive is the maximum-compression rule engine.
type Aggressive struct{}

// Name returns the variant tag.
func (a *Aggressive) Name() string { return string(VariantAggressive) }

// Stem reduces word with the single-pass table, preserving case.
func (a *Aggressive) Stem(word string) string {
	if len(word) < 3 {
		return word
	}
	return preserveCase(word, stemAggressive)
}

// aggressiveRules is ordered longest/most-specific first; the first match
// in table order is applied and the pass stops.
var aggressiveRules = []suffixPair{
	{"ization", ""},
	{"fulness", ""},
	{"ousness", ""},
	{"iveness", ""},
	{"ational", "e"},
	{"tional", "t"},
	{"biliti", "ble"},
	{"lessli", "less"},
	{"entli", "ent"},
	{"ousli", "ous"},
	{"alism", ""},
	{"aliti", ""},
	{"iviti", ""},
	{"ement", ""},
	{"ation", ""},
	{"ness", ""},
	{"ment", ""},
	{"ance", ""},
	{"ence", ""},
	{"able", ""},
	{"ible", ""},
	{"less", ""},
	{"ful", ""},
	{"ies", "y"},
	{"ing", ""},
	{"est", ""},
	{"ed", ""},
	{"er", ""},
	{"ly", ""},
	{"es", ""},
	{"s", ""},
}

// minStemLength is the only guard in the aggressive pass.
const minStemLength = 2

func stemAggressive(word string) string {
	for _, r := range aggressiveRules {
		if !strings.HasSuffix(word, r.suffix) {
			continue
		}
		if len(word)-len(r.suffix) < minStemLength {
			continue
		}
		return word[:len(word)-len(r.suffix)] + r.replacement
	}
	return word
}
