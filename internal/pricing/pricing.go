// Package pricing holds the per-model price table used for cost-savings
// arithmetic.
//
// DESIGN: The table is injected configuration data, never derived. A
// built-in default ships with the binary and a YAML table can replace it.
// Unknown model names are silently skipped, matching the rest of the
// configuration surface (invalid key == use default, never an error).
package pricing

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModelPrice is the price per million tokens for one model. CachedInput
// is nil when the provider does not publish a cached-input rate.
type ModelPrice struct {
	Input       float64  `yaml:"input" json:"input"`
	Output      float64  `yaml:"output" json:"output"`
	CachedInput *float64 `yaml:"cached_input,omitempty" json:"cached_input,omitempty"`
}

// Table maps model name to its price entry.
type Table map[string]ModelPrice

func cached(v float64) *float64 { return &v }

// defaultTable is the built-in price table, USD per million tokens.
var defaultTable = Table{
	"gpt-4o":            {Input: 2.50, Output: 10.00, CachedInput: cached(1.25)},
	"gpt-4o-mini":       {Input: 0.15, Output: 0.60, CachedInput: cached(0.075)},
	"gpt-4.1":           {Input: 2.00, Output: 8.00, CachedInput: cached(0.50)},
	"o3-mini":           {Input: 1.10, Output: 4.40, CachedInput: cached(0.55)},
	"claude-sonnet-4":   {Input: 3.00, Output: 15.00, CachedInput: cached(0.30)},
	"claude-haiku-3.5":  {Input: 0.80, Output: 4.00, CachedInput: cached(0.08)},
	"claude-opus-4":     {Input: 15.00, Output: 75.00, CachedInput: cached(1.50)},
	"gemini-2.0-flash":  {Input: 0.10, Output: 0.40},
	"gemini-1.5-pro":    {Input: 1.25, Output: 5.00},
	"deepseek-chat":     {Input: 0.27, Output: 1.10, CachedInput: cached(0.07)},
	"llama-3.3-70b":     {Input: 0.59, Output: 0.79},
	"mistral-large":     {Input: 2.00, Output: 6.00},
}

// Default returns a copy of the built-in table.
func Default() Table {
	t := make(Table, len(defaultTable))
	for k, v := range defaultTable {
		t[k] = v
	}
	return t
}

// Load reads a price table from a YAML file. The file replaces the
// default table entirely.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read %s: %w", path, err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("pricing: parse %s: %w", path, err)
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("pricing: %s contains no models", path)
	}
	return t, nil
}

// Lookup returns the price entry for a model name.
func (t Table) Lookup(model string) (ModelPrice, bool) {
	p, ok := t[model]
	return p, ok
}

// Models returns the model names in sorted order so cost reports are
// stable across runs.
func (t Table) Models() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
