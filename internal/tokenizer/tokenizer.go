// Package tokenizer splits raw text into word and punctuation tokens.
//
// DESIGN: One unified splitting rule, ASCII word-class based:
//   - a maximal run of word characters (letters, digits, '_', '\'') is one token
//   - any other single non-space character is its own token
//   - whitespace separates tokens and is never itself a token
//
// Runs of punctuation ("...") therefore become multiple single-character
// tokens, never one. Classification is derived on demand, not stored.
package tokenizer

import (
	"strings"
	"unicode"
)

// Token is an immutable text fragment produced by Tokenize.
type Token string

// String returns the token content.
func (t Token) String() string { return string(t) }

// IsWord reports whether the token consists entirely of word characters.
func (t Token) IsWord() bool {
	if len(t) == 0 {
		return false
	}
	for _, r := range t {
		if !isWordRune(r) {
			return false
		}
	}
	return true
}

// IsPunctuation reports whether the token is a single character that is
// neither a word character nor whitespace.
func (t Token) IsPunctuation() bool {
	runes := []rune(string(t))
	if len(runes) != 1 {
		return false
	}
	r := runes[0]
	return !isWordRune(r) && !unicode.IsSpace(r)
}

// isWordRune defines the word-character class: letters, digits,
// underscore, and apostrophe.
func isWordRune(r rune) bool {
	return r == '_' || r == '\'' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// MergeContractions deletes an apostrophe sitting between two word
// characters ("don't" -> "dont") so contractions tokenize as one word.
// Apostrophes not flanked by word characters are untouched. Lossy and
// irreversible; this is the first stage of compression.
func MergeContractions(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i, r := range runes {
		if r == '\'' && i > 0 && i < len(runes)-1 &&
			isBareWordRune(runes[i-1]) && isBareWordRune(runes[i+1]) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isBareWordRune is the word class without the apostrophe itself, so a
// run of apostrophes never counts as "between two word characters".
func isBareWordRune(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// Tokenize splits text into an ordered token sequence. Empty input yields
// an empty sequence; no token is ever empty.
func Tokenize(text string) []Token {
	var tokens []Token
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, Token(current.String()))
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case isWordRune(r):
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, Token(string(r)))
		}
	}
	flush()

	return tokens
}
