package gemini_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smarttrip/tripplanner/internal/gemini"
)

func TestExtract_Order(t *testing.T) {
	candidates := []gemini.Candidate{{Content: &gemini.Content{Parts: []gemini.Part{{Text: "c1"}, {Text: "c2"}}}}}

	tests := []struct {
		name string
		resp *gemini.Response
		want string
		ok   bool
	}{
		{"direct text wins", &gemini.Response{Text: "direct", Parts: []gemini.Part{{Text: "p"}}, Candidates: candidates}, "direct", true},
		{"parts before candidates", &gemini.Response{Parts: []gemini.Part{{Text: "p1"}, {Text: "p2"}}, Candidates: candidates}, "p1p2", true},
		{"first candidate parts", &gemini.Response{Candidates: candidates}, "c1c2", true},
		{"only first candidate is read", &gemini.Response{Candidates: []gemini.Candidate{{}, candidates[0]}}, "", false},
		{"empty parts are skipped", &gemini.Response{Parts: []gemini.Part{{Text: ""}}, Candidates: candidates}, "c1c2", true},
		{"empty envelope", &gemini.Response{}, "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := gemini.Extract(tc.resp)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
