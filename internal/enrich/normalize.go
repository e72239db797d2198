package enrich

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/octobees/vc-scout/internal/entity"
)

const (
	FallbackSummary = "Could not parse AI response. Showing fallback summary."
	DefaultSummary  = "No summary available"
	fallbackBullet  = "Extracted data from public website content."
	fieldSummary    = "summary"
	fieldWhatTheyDo = "whatTheyDo"
	fieldKeywords   = "keywords"
	fieldSignals    = "derivedSignals"
)

var (
	fenceOpenRe      = regexp.MustCompile("(?i)```json")
	fallbackKeywords = []string{"website", "public-data", "enrichment"}
)

// ParsedFields holds the top-level members of a model response object, undecoded.
type ParsedFields map[string]json.RawMessage

// ParseResult is either the parsed model object or the reason it could not be parsed.
type ParseResult struct {
	fields ParsedFields
	err    error
}

// Fields returns the parsed object, or a *ModelOutputError.
func (r ParseResult) Fields() (ParsedFields, error) {
	return r.fields, r.err
}

// OK reports whether parsing succeeded.
func (r ParseResult) OK() bool {
	return r.err == nil
}

// OrElse returns the parsed fields, or the value produced by fallback when parsing failed.
func (r ParseResult) OrElse(fallback func(err error) ParsedFields) ParsedFields {
	if r.err == nil {
		return r.fields
	}
	return fallback(r.err)
}

// CleanModelOutput removes Markdown code-fence markers and surrounding whitespace.
func CleanModelOutput(raw string) string {
	cleaned := fenceOpenRe.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// ParseModelOutput strictly decodes cleaned model output. A JSON object yields its members;
// any other valid JSON value except null parses to no members, so every field takes its default.
func ParseModelOutput(raw string) ParseResult {
	cleaned := CleanModelOutput(raw)
	if cleaned == "" {
		return ParseResult{err: &ModelOutputError{Raw: raw, Cause: ErrEmptyModelResponse}}
	}
	var value json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return ParseResult{err: &ModelOutputError{Raw: raw, Cause: err}}
	}
	if isNull(value) {
		return ParseResult{err: &ModelOutputError{Raw: raw, Cause: errors.New("output is null")}}
	}
	if value[0] != '{' {
		return ParseResult{fields: ParsedFields{}}
	}
	var fields ParsedFields
	if err := json.Unmarshal(value, &fields); err != nil {
		return ParseResult{err: &ModelOutputError{Raw: raw, Cause: err}}
	}
	return ParseResult{fields: fields}
}

// FallbackFields builds the deterministic substitute used when the model output is unusable.
func FallbackFields(text string) ParsedFields {
	return ParsedFields{
		fieldSummary:    mustMarshal(FallbackSummary),
		fieldWhatTheyDo: mustMarshal([]string{fallbackBullet}),
		fieldKeywords:   mustMarshal(fallbackKeywords),
		fieldSignals:    mustMarshal(GuessSignals(text)),
	}
}

// Coalesce enforces the result shape field by field and attaches the single source entry.
func Coalesce(fields ParsedFields, text, website string, scrapedAt time.Time) entity.EnrichmentResult {
	result := entity.EnrichmentResult{
		Summary:        coalesceSummary(fields[fieldSummary]),
		WhatTheyDo:     coalesceList(fields[fieldWhatTheyDo]),
		Keywords:       coalesceList(fields[fieldKeywords]),
		DerivedSignals: coalesceList(fields[fieldSignals]),
		Sources:        []entity.Source{entity.NewSource(website, scrapedAt)},
	}
	if result.WhatTheyDo == nil {
		result.WhatTheyDo = []string{}
	}
	if result.Keywords == nil {
		result.Keywords = []string{}
	}
	if result.DerivedSignals == nil {
		result.DerivedSignals = GuessSignals(text)
	}
	return result
}

func coalesceSummary(raw json.RawMessage) string {
	if isNull(raw) {
		return DefaultSummary
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return compactJSON(raw)
}

// coalesceList returns nil when raw is not a JSON array. Non-string elements are kept as
// their JSON text; null elements are dropped.
func coalesceList(raw json.RawMessage) []string {
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if isNull(item) {
			continue
		}
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		out = append(out, compactJSON(item))
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
