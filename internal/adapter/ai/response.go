package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arturoeanton/go-repo-onboarding/internal/domain"
)

// ReasoningDelimiter closes a model's private chain of thought.
const ReasoningDelimiter = "</think>"

// NoRecommendations is returned by ParseBullets when the text has no bullets.
const NoRecommendations = "No specific recommendations available"

// StripReasoning returns the text after the last reasoning delimiter, trimmed.
// Text without the delimiter is returned unchanged.
func StripReasoning(text string) string {
	i := strings.LastIndex(text, ReasoningDelimiter)
	if i < 0 {
		return text
	}
	return strings.TrimSpace(text[i+len(ReasoningDelimiter):])
}

// StripCodeFence returns the body of a Markdown code fence (```json or bare
// ```), or the trimmed text when it is not fenced. Text that already starts
// as a JSON value is returned as is so fences inside string values survive.
// An unterminated fence yields everything after the opening line.
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		return t
	}
	start := strings.Index(t, "```")
	if start < 0 {
		return t
	}
	body := t[start+3:]
	// language tag runs to the end of the opening line
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if tag := strings.TrimSpace(body[:nl]); !strings.ContainsAny(tag, "{[") {
			body = body[nl+1:]
		}
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// ParseJSON strips code fences and decodes exactly one JSON value into T.
// Anything that does not decode cleanly, including a truncated document or
// trailing text, is a *domain.MalformedAIResponseError carrying raw.
func ParseJSON[T any](raw string) (T, error) {
	var out T
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return out, &domain.MalformedAIResponseError{Raw: raw, Err: errors.New("empty response")}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&out); err != nil {
		var zero T
		return zero, &domain.MalformedAIResponseError{Raw: raw, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var zero T
		return zero, &domain.MalformedAIResponseError{Raw: raw, Err: fmt.Errorf("unexpected data after JSON value")}
	}
	return out, nil
}

// ParseBullets extracts "- item" lines (also "* " and "• "), strips the
// marker, drops duplicates keeping first occurrence, and never returns an
// empty slice.
func ParseBullets(text string) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, line := range strings.Split(text, "\n") {
		item, ok := bulletText(strings.TrimSpace(line))
		if !ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	if len(items) == 0 {
		return []string{NoRecommendations}
	}
	return items
}

func bulletText(line string) (string, bool) {
	var rest string
	switch {
	case strings.HasPrefix(line, "-"):
		rest = line[1:]
	case strings.HasPrefix(line, "* "):
		rest = line[2:]
	case strings.HasPrefix(line, "•"):
		rest = line[len("•"):]
	default:
		return "", false
	}
	rest = strings.TrimSpace(rest)
	// horizontal rules
	if strings.Trim(rest, "-") == "" {
		return "", false
	}
	return rest, true
}
