package server

// Body-trimming tests: JSON surgery on chat request payloads must touch
// message contents only and pass every other byte through.

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/compresr/prompt-trim/internal/config"
	"github.com/compresr/prompt-trim/internal/pipeline"
)

// TestTrimRequestBodyStringContent verifies string contents are reduced
// and the system role is skipped.
func TestTrimRequestBodyStringContent(t *testing.T) {
	body := []byte(`{
		"model": "gpt-4o",
		"temperature": 0.7,
		"messages": [
			{"role": "system", "content": "You are a helpful assistant."},
			{"role": "user", "content": "The quick brown fox jumps over the lazy dog"}
		]
	}`)

	opts := pipeline.DefaultOptions()
	patched, result, err := TrimRequestBody(body, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.MessagesTrimmed)
	assert.Equal(t, len(body), result.OriginalBytes)
	assert.Less(t, result.ReducedBytes, result.OriginalBytes)

	assert.Equal(t, "You are a helpful assistant.",
		gjson.GetBytes(patched, "messages.0.content").String())
	assert.Equal(t, "quickbrownfoxjumpslazydog",
		gjson.GetBytes(patched, "messages.1.content").String())

	// everything else passes through
	assert.Equal(t, "gpt-4o", gjson.GetBytes(patched, "model").String())
	assert.Equal(t, 0.7, gjson.GetBytes(patched, "temperature").Float())
}

// TestTrimRequestBodyContentBlocks verifies structured content: text
// blocks are reduced, other block types are untouched.
func TestTrimRequestBodyContentBlocks(t *testing.T) {
	body := []byte(`{
		"model": "claude-sonnet-4",
		"messages": [
			{"role": "user", "content": [
				{"type": "text", "text": "The quick brown fox jumps over the lazy dog"},
				{"type": "image", "source": {"data": "abc123"}}
			]}
		]
	}`)

	patched, result, err := TrimRequestBody(body, pipeline.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, result.MessagesTrimmed)
	assert.Equal(t, "quickbrownfoxjumpslazydog",
		gjson.GetBytes(patched, "messages.0.content.0.text").String())
	assert.Equal(t, "abc123",
		gjson.GetBytes(patched, "messages.0.content.1.source.data").String())
}

// TestTrimRequestBodyRejections verifies non-JSON and message-less
// bodies fail instead of passing through unexamined.
func TestTrimRequestBodyRejections(t *testing.T) {
	_, _, err := TrimRequestBody([]byte("not json"), pipeline.DefaultOptions())
	assert.Error(t, err)

	_, _, err = TrimRequestBody([]byte(`{"model":"gpt-4o"}`), pipeline.DefaultOptions())
	assert.Error(t, err)
}

// TestTrimBodyEndpoint verifies the handler wiring: headers plus query
// parameter overlays.
func TestTrimBodyEndpoint(t *testing.T) {
	s := newTestServer(t)
	body := `{"messages":[{"role":"user","content":"do not drop the negation"}]}`

	req := httptest.NewRequest(http.MethodPost, "/v1/trim/body?remove_spaces=false", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Messages-Trimmed"))
	assert.Equal(t, "not drop negation",
		gjson.GetBytes(rec.Body.Bytes(), "messages.0.content").String())
}

// TestOptionsFromQuery verifies the overlay semantics: set parameters
// override, absent ones keep the configured defaults, junk is ignored.
func TestOptionsFromQuery(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Trim.RemoveStopwords = true
		c.Trim.UseStemming = false
	})

	req := httptest.NewRequest(http.MethodGet,
		"/?use_stemming=true&stemmer=aggressive&remove_stopwords=junk&language=german", nil)
	opts := s.optionsFromQuery(req)

	assert.True(t, opts.UseStemming)
	assert.Equal(t, "aggressive", string(opts.Stemmer))
	assert.True(t, opts.RemoveStopwords) // junk value ignored
	assert.Equal(t, "german", opts.Language)
}
