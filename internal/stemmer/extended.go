// Extended variant: reserved for an independent rule set. Until that set
// exists it must produce output byte-identical to the light variant, so it
// delegates to the same stage machine rather than duplicating it.
package stemmer

// Extended is a placeholder rule engine that currently specializes Light.
type Extended struct{}

// Name returns the variant tag.
func (e *Extended) Name() string { return string(VariantExtended) }

// Stem behaves identically to the light variant.
func (e *Extended) Stem(word string) string {
	if len(word) < 3 {
		return word
	}
	return preserveCase(word, stemLight)
}
