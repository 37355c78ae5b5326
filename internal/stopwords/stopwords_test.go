package stopwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestForLanguageFallback verifies unknown language tags fall back to
// english rather than failing.
func TestForLanguageFallback(t *testing.T) {
	english := ForLanguage("english")
	assert.True(t, english.Contains("the"))

	fallback := ForLanguage("klingon")
	assert.True(t, fallback.Contains("the"))

	assert.True(t, ForLanguage("ENGLISH").Contains("the"))
}

// TestLookupCaseInsensitive verifies membership ignores case.
func TestLookupCaseInsensitive(t *testing.T) {
	s := ForLanguage("english")
	assert.True(t, s.Contains("The"))
	assert.True(t, s.Contains("THE"))
	assert.False(t, s.Contains("fox"))
}

// TestNegationsSurvive verifies negation words are flagged even when a
// stopword table lists them.
func TestNegationsSurvive(t *testing.T) {
	s := ForLanguage("english")

	// "not" is both a stopword and a negation
	assert.True(t, s.Contains("not"))
	assert.True(t, IsNegation("not"))
	assert.True(t, IsNegation("NOT"))

	// merged contraction forms are negations too
	assert.True(t, IsNegation("dont"))
	assert.True(t, IsNegation("wont"))

	// a plain stopword is not a negation
	assert.False(t, IsNegation("the"))
}

// TestOtherLanguages verifies non-english tables are wired.
func TestOtherLanguages(t *testing.T) {
	assert.True(t, ForLanguage("spanish").Contains("pero"))
	assert.True(t, ForLanguage("french").Contains("mais"))
	assert.True(t, ForLanguage("german").Contains("aber"))
	assert.Contains(t, Languages(), "english")
}
