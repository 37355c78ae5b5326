// Request-body trimming for raw LLM API payloads.
//
// DESIGN: POST /v1/trim/body takes an OpenAI- or Anthropic-style chat
// request and reduces every string message content in place. JSON surgery
// is done with gjson/sjson so the rest of the body (model, tools,
// sampling params) passes through byte-for-byte. Structured content
// blocks (Anthropic "type":"text" parts) are handled too; anything else
// is left alone rather than guessed at.
package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/compresr/prompt-trim/internal/pipeline"
	"github.com/compresr/prompt-trim/internal/stemmer"
)

// BodyTrimResult summarizes one body reduction (returned in headers).
type BodyTrimResult struct {
	MessagesTrimmed int
	OriginalBytes   int
	ReducedBytes    int
}

// TrimRequestBody reduces message contents inside body and returns the
// patched body. The system prompt ("system" field or role) is left
// untouched: instructions compress badly and breaking them costs more
// than the tokens save.
func TrimRequestBody(body []byte, opts pipeline.Options) ([]byte, BodyTrimResult, error) {
	result := BodyTrimResult{OriginalBytes: len(body)}

	if !gjson.ValidBytes(body) {
		return nil, result, fmt.Errorf("request body is not valid JSON")
	}

	messages := gjson.GetBytes(body, "messages")
	if !messages.IsArray() {
		return nil, result, fmt.Errorf("request body has no messages array")
	}

	patched := body
	var err error

	for i, msg := range messages.Array() {
		if msg.Get("role").String() == "system" {
			continue
		}

		content := msg.Get("content")
		switch {
		case content.Type == gjson.String:
			reduced := pipeline.Trim(content.String(), opts)
			patched, err = sjson.SetBytes(patched, fmt.Sprintf("messages.%d.content", i), reduced)
			if err != nil {
				return nil, result, fmt.Errorf("patch message %d: %w", i, err)
			}
			result.MessagesTrimmed++

		case content.IsArray():
			for j, block := range content.Array() {
				if block.Get("type").String() != "text" {
					continue
				}
				reduced := pipeline.Trim(block.Get("text").String(), opts)
				patched, err = sjson.SetBytes(patched,
					fmt.Sprintf("messages.%d.content.%d.text", i, j), reduced)
				if err != nil {
					return nil, result, fmt.Errorf("patch message %d block %d: %w", i, j, err)
				}
			}
			result.MessagesTrimmed++
		}
	}

	result.ReducedBytes = len(patched)
	return patched, result, nil
}

// handleTrimBody reduces message contents inside a raw LLM request body.
// Options come from the configured defaults; per-request overrides ride
// on query parameters (e.g. ?use_stemming=true&stemmer=aggressive).
func (s *Server) handleTrimBody(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	opts := s.optionsFromQuery(r)

	patched, result, err := TrimRequestBody(body, opts)
	if err != nil {
		s.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.metrics.RecordTrim(result.OriginalBytes, result.ReducedBytes)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Messages-Trimmed", fmt.Sprintf("%d", result.MessagesTrimmed))
	w.Header().Set("X-Original-Bytes", fmt.Sprintf("%d", result.OriginalBytes))
	w.Header().Set("X-Reduced-Bytes", fmt.Sprintf("%d", result.ReducedBytes))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(patched)
}

// optionsFromQuery overlays query-parameter toggles on the configured
// defaults. Unknown values fall back silently, like everywhere else.
func (s *Server) optionsFromQuery(r *http.Request) pipeline.Options {
	opts := s.cfg.Trim
	q := r.URL.Query()

	boolParam := func(name string, dst *bool) {
		switch q.Get(name) {
		case "true", "1":
			*dst = true
		case "false", "0":
			*dst = false
		}
	}

	boolParam("remove_stopwords", &opts.RemoveStopwords)
	boolParam("remove_punctuation", &opts.RemovePunctuation)
	boolParam("remove_spaces", &opts.RemoveSpaces)
	boolParam("use_stemming", &opts.UseStemming)

	if v := q.Get("stemmer"); v != "" {
		opts.Stemmer = stemmer.ParseVariant(v)
	}
	if v := q.Get("language"); v != "" {
		opts.Language = v
	}
	return opts
}
