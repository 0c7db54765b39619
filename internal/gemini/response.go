package gemini

import (
	"fmt"
	"strings"

	"github.com/smarttrip/tripplanner/internal/domain"
)

// ErrResponseShape means the provider answered but none of the extraction
// strategies found any text. It is a configuration-class failure: the
// service logic, not the network, is at fault.
var ErrResponseShape = fmt.Errorf("%w: could not extract text from provider response", domain.ErrConfiguration)

// Response is a transport-neutral view of a generateContent reply. The
// provider's envelope is not stable across model versions, so every field
// is optional and Extract probes them in a fixed order.
type Response struct {
	Text       string      `json:"text,omitempty"`
	Parts      []Part      `json:"parts,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Part is one fragment of generated content.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Candidate is one alternative answer.
type Candidate struct {
	Content *Content `json:"content,omitempty"`
}

// Content is the body of a candidate.
type Content struct {
	Parts []Part `json:"parts,omitempty"`
}

// extractor returns the text found by one strategy, or false.
type extractor func(*Response) (string, bool)

// extractors are tried in order; the first hit wins.
var extractors = []extractor{
	directText,
	partsText,
	candidatePartsText,
}

// Extract runs the extraction strategies against resp.
func Extract(resp *Response) (string, bool) {
	if resp == nil {
		return "", false
	}
	for _, ex := range extractors {
		if text, ok := ex(resp); ok {
			return text, true
		}
	}
	return "", false
}

func directText(r *Response) (string, bool) {
	return r.Text, r.Text != ""
}

func partsText(r *Response) (string, bool) {
	return joinParts(r.Parts)
}

func candidatePartsText(r *Response) (string, bool) {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return "", false
	}
	return joinParts(r.Candidates[0].Content.Parts)
}

func joinParts(parts []Part) (string, bool) {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String(), b.Len() > 0
}
