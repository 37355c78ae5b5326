// Light variant: suffix stripping as an ordered sequence of stages.
// Each stage's output feeds the next; within a stage the first applicable
// suffix wins. Rule tables are ordered slices, not maps — priority is part
// of the contract.
package stemmer

import "strings"

// Light is the default rule engine.
type Light struct{}

// Name returns the variant tag.
func (l *Light) Name() string { return string(VariantLight) }

// Stem reduces word through the seven stages, preserving case.
func (l *Light) Stem(word string) string {
	if len(word) < 3 {
		return word
	}
	return preserveCase(word, stemLight)
}

func stemLight(word string) string {
	word = stagePlurals(word)
	word = stageVerbAspect(word)
	word = stageYToI(word)
	word = stageSuffixMap(word, derivationalPairs, 0)
	word = stageSuffixMap(word, combiningPairs, 0)
	word = stageRemoval(word)
	word = stageCleanup(word)
	return word
}

// stagePlurals handles plural and possessive-like endings.
func stagePlurals(word string) string {
	switch {
	case strings.HasSuffix(word, "sses"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ies"):
		return word[:len(word)-2]
	case strings.HasSuffix(word, "ss"):
		return word
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1]
	}
	return word
}

// stageVerbAspect strips "eed"/"ed"/"ing" with vowel and measure gates,
// then repairs the stem so later stages see a plausible root.
func stageVerbAspect(word string) string {
	if strings.HasSuffix(word, "eed") {
		stem := word[:len(word)-3]
		if measure(stem) > 0 {
			return word[:len(word)-1]
		}
		return word
	}

	stripped := false
	if strings.HasSuffix(word, "ed") {
		if stem := word[:len(word)-2]; hasVowel(stem) {
			word = stem
			stripped = true
		}
	} else if strings.HasSuffix(word, "ing") {
		if stem := word[:len(word)-3]; hasVowel(stem) {
			word = stem
			stripped = true
		}
	}

	if !stripped {
		return word
	}

	switch {
	case strings.HasSuffix(word, "at"), strings.HasSuffix(word, "bl"), strings.HasSuffix(word, "iz"):
		return word + "e"
	case endsDoubleConsonant(word):
		c := word[len(word)-1]
		if c != 'l' && c != 's' && c != 'z' {
			return word[:len(word)-1]
		}
	case measure(word) == 1 && endsCVC(word):
		return word + "e"
	}
	return word
}

// stageYToI rewrites a trailing "y" to "i" when a vowel appears earlier
// in the stem.
func stageYToI(word string) string {
	if strings.HasSuffix(word, "y") {
		if stem := word[:len(word)-1]; hasVowel(stem) {
			return stem + "i"
		}
	}
	return word
}

// suffixPair maps a suffix to its replacement.
type suffixPair struct {
	suffix, replacement string
}

// derivationalPairs is the stage-4 table. Order is priority: the first
// matching suffix wins, and a failed measure gate ends the stage.
var derivationalPairs = []suffixPair{
	{"ational", "ate"},
	{"tional", "tion"},
	{"enci", "ence"},
	{"anci", "ance"},
	{"izer", "ize"},
	{"abli", "able"},
	{"alli", "al"},
	{"entli", "ent"},
	{"eli", "e"},
	{"ousli", "ous"},
	{"ization", "ize"},
	{"ation", "ate"},
	{"ator", "ate"},
	{"alism", "al"},
	{"iveness", "ive"},
	{"fulness", "ful"},
	{"ousness", "ous"},
	{"aliti", "al"},
	{"iviti", "ive"},
	{"biliti", "ble"},
}

// combiningPairs is the stage-5 table, same gate as stage 4.
var combiningPairs = []suffixPair{
	{"icate", "ic"},
	{"ative", ""},
	{"alize", "al"},
	{"iciti", "ic"},
	{"ical", "ic"},
	{"ful", ""},
	{"ness", ""},
}

// stageSuffixMap applies the first matching pair when the stem before the
// suffix has measure > minMeasure.
func stageSuffixMap(word string, pairs []suffixPair, minMeasure int) string {
	for _, p := range pairs {
		if strings.HasSuffix(word, p.suffix) {
			stem := word[:len(word)-len(p.suffix)]
			if measure(stem) > minMeasure {
				return stem + p.replacement
			}
			return word
		}
	}
	return word
}

// removalSuffixes is the stage-6 list: pure removal gated by measure > 1.
// "ion" additionally requires the stem to end in 's' or 't'.
var removalSuffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant",
	"ement", "ment", "ent", "ion", "ou", "ism", "ate", "iti",
	"ous", "ive", "ize",
}

func stageRemoval(word string) string {
	for _, suffix := range removalSuffixes {
		if !strings.HasSuffix(word, suffix) {
			continue
		}
		stem := word[:len(word)-len(suffix)]
		if measure(stem) > 1 {
			if suffix == "ion" {
				if n := len(stem); n > 0 && (stem[n-1] == 's' || stem[n-1] == 't') {
					return stem
				}
				continue
			}
			return stem
		}
	}
	return word
}

// stageCleanup drops a trailing "e" and singularizes a trailing "ll".
func stageCleanup(word string) string {
	if strings.HasSuffix(word, "e") {
		stem := word[:len(word)-1]
		m := measure(stem)
		if m > 1 || (m == 1 && !endsCVC(stem)) {
			word = stem
		}
	}
	if measure(word) > 1 && endsDoubleConsonant(word) && word[len(word)-1] == 'l' {
		word = word[:len(word)-1]
	}
	return word
}
