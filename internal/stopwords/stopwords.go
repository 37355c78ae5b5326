// Package stopwords holds per-language stopword tables and the negation
// set exempted from stopword removal.
//
// DESIGN: Lookup is case-insensitive. Unknown language tags fall back to
// "english" — never an error, matching the rest of the configuration
// surface. Negations are language-agnostic: dropping them inverts meaning,
// so they survive removal even when a language table lists them.
package stopwords

import "strings"

// english is the authoritative table. Order matters only for humans
// reading it; membership is what the pipeline checks.
var english = []string{
	"a", "an", "and", "are", "as", "at", "be", "been", "being", "but",
	"by", "can", "could", "did", "do", "does", "for", "from", "had",
	"has", "have", "he", "her", "him", "his", "how", "i", "if", "in",
	"into", "is", "it", "its", "may", "me", "might", "my", "no", "nor",
	"not", "of", "on",
	"or", "our", "out", "over", "shall", "she", "should", "so", "some",
	"such",
	"than", "that", "the", "their", "them", "then", "they", "this",
	"to", "up", "us", "was", "we", "were", "what", "when", "where",
	"which", "who", "why", "will", "with", "would", "you", "your",
}

var spanish = []string{
	"a", "al", "como", "con", "de", "del", "el", "ella", "ellos", "en",
	"era", "es", "esta", "este", "esto", "la", "las", "lo", "los", "mas",
	"mi", "o", "para", "pero", "por", "que", "se", "ser", "si", "sin",
	"sobre", "su", "sus", "tu", "un", "una", "unas", "unos", "y", "yo",
}

var french = []string{
	"a", "au", "aux", "avec", "ce", "ces", "dans", "de", "des", "du",
	"elle", "en", "est", "et", "eux", "il", "ils", "je", "la", "le",
	"les", "leur", "lui", "mais", "me", "meme", "mes", "moi", "mon",
	"ne", "nos", "notre", "nous", "on", "ou", "par", "pour", "qui",
	"que", "sa", "se", "ses", "son", "sur", "ta", "te", "tes", "toi",
	"ton", "tu", "un", "une", "vos", "votre", "vous",
}

var german = []string{
	"aber", "als", "am", "an", "auch", "auf", "aus", "bei", "bin",
	"bis", "bist", "da", "das", "dem", "den", "der", "des", "die",
	"du", "ein", "eine", "einem", "einen", "einer", "eines", "er",
	"es", "fur", "hat", "hatte", "ich", "ihr", "im", "in", "ist",
	"ja", "mit", "nach", "noch", "oder", "sein", "sich", "sie",
	"sind", "so", "uber", "um", "und", "von", "vor", "war", "was",
	"wie", "wir", "wird", "zu", "zum", "zur",
}

// negations must survive stopword removal regardless of table membership.
// Includes merged contraction forms ("don't" tokenizes as "dont").
var negations = []string{
	"not", "no", "never", "neither", "nor", "nobody", "none",
	"nothing", "nowhere", "cannot",
	"dont", "cant", "wont", "isnt", "arent", "wasnt", "werent",
	"doesnt", "didnt", "couldnt", "shouldnt", "wouldnt",
	"havent", "hasnt", "hadnt",
}

// Set is a case-insensitive word membership set.
type Set map[string]struct{}

// Contains reports membership after lowercasing.
func (s Set) Contains(word string) bool {
	_, ok := s[strings.ToLower(word)]
	return ok
}

func buildSet(words []string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

var tables = map[string]Set{
	"english": buildSet(english),
	"spanish": buildSet(spanish),
	"french":  buildSet(french),
	"german":  buildSet(german),
}

var negationSet = buildSet(negations)

// DefaultLanguage is used when a requested language table is absent.
const DefaultLanguage = "english"

// ForLanguage returns the stopword set for a language tag, falling back
// to english when the tag is unknown.
func ForLanguage(lang string) Set {
	if s, ok := tables[strings.ToLower(lang)]; ok {
		return s
	}
	return tables[DefaultLanguage]
}

// IsNegation reports whether the word is in the language-agnostic
// negation set.
func IsNegation(word string) bool {
	return negationSet.Contains(word)
}

// Languages returns the tags that have a shipped table.
func Languages() []string {
	out := make([]string, 0, len(tables))
	for lang := range tables {
		out = append(out, lang)
	}
	return out
}
