package pricing

// Price table tests: default copy semantics, YAML loading, and stable
// model ordering.

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultIsACopy verifies mutating a returned table cannot corrupt
// the built-in one.
func TestDefaultIsACopy(t *testing.T) {
	a := Default()
	a["gpt-4o"] = ModelPrice{Input: 999}

	b := Default()
	price, ok := b.Lookup("gpt-4o")
	require.True(t, ok)
	assert.Equal(t, 2.50, price.Input)
}

// TestDefaultWellFormed verifies every built-in entry carries positive
// prices.
func TestDefaultWellFormed(t *testing.T) {
	table := Default()
	require.NotEmpty(t, table)

	for _, model := range table.Models() {
		price, ok := table.Lookup(model)
		require.True(t, ok)
		assert.Positive(t, price.Input, "model %s", model)
		assert.Positive(t, price.Output, "model %s", model)
		if price.CachedInput != nil {
			assert.Positive(t, *price.CachedInput, "model %s", model)
		}
	}
}

// TestModelsSorted verifies the report ordering is lexicographic.
func TestModelsSorted(t *testing.T) {
	table := Table{"zeta": {Input: 1}, "alpha": {Input: 1}, "mid": {Input: 1}}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, table.Models())
}

// TestLoad verifies a YAML file replaces the default table entirely.
func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.yaml")
	data := `
my-model:
  input: 1.5
  output: 6.0
  cached_input: 0.75
other-model:
  input: 0.2
  output: 0.8
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	require.Len(t, table, 2)

	price, ok := table.Lookup("my-model")
	require.True(t, ok)
	assert.Equal(t, 1.5, price.Input)
	assert.Equal(t, 6.0, price.Output)
	require.NotNil(t, price.CachedInput)
	assert.Equal(t, 0.75, *price.CachedInput)

	_, ok = table.Lookup("gpt-4o")
	assert.False(t, ok)
}

// TestLoadErrors verifies missing, malformed, and empty files fail
// loudly instead of silently falling back.
func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("model: [not a price"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	_, err = Load(empty)
	assert.Error(t, err)
}
