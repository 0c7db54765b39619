// Package reconcile turns raw generated text into a structured itinerary.
// Models often wrap JSON in a Markdown code fence even when told not to, so
// one leading and one trailing fence marker are stripped before parsing.
package reconcile

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/smarttrip/tripplanner/internal/domain"
)

const (
	fenceJSON = "```json"
	fence     = "```"

	// sampleLimit bounds the raw text carried in an error for diagnostics.
	sampleLimit = 200
)

// Error describes a reply that did not parse as JSON. It wraps
// domain.ErrMalformedResponse and the underlying decode error.
type Error struct {
	// Sample is the start of the raw text, truncated for logging.
	Sample string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", domain.ErrMalformedResponse, e.Err)
}

// Unwrap exposes both the sentinel and the decode error to errors.Is/As.
func (e *Error) Unwrap() []error {
	return []error{domain.ErrMalformedResponse, e.Err}
}

// Reconcile strips code fences from raw and parses the rest as JSON.
// Any syntactically valid JSON value is accepted; no schema is checked.
func Reconcile(raw string) (domain.Itinerary, error) {
	cleaned := Clean(raw)

	var v domain.Itinerary
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, &Error{Sample: Truncate(raw, sampleLimit), Err: err}
	}
	return v, nil
}

// Clean trims whitespace and removes at most one leading "```json" (or bare
// "```") marker and at most one trailing "```" marker.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, fenceJSON):
		s = s[len(fenceJSON):]
	case strings.HasPrefix(s, fence):
		s = s[len(fence):]
	}
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

// Truncate returns at most n runes of s, marking the cut with "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
