// Package prompt compiles a validated trip request into the instruction text
// sent to the generation provider. Compile is pure: the same request always
// yields byte-identical output.
package prompt

import (
	_ "embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/smarttrip/tripplanner/internal/domain"
)

//go:embed prompt.tmpl
var promptText string

// tmpl is parsed once and only read afterwards, so concurrent Execute calls are safe.
var tmpl = template.Must(template.New("prompt").Option("missingkey=error").Parse(promptText))

// fields is the flattened view of a TripRequest the template renders.
type fields struct {
	Destination string
	Dates       string
	Duration    string
	Budget      string
	Preferences string
	Style       string
	Intensity   string
}

// Compile renders the prompt for req. req must already have passed
// domain.TripRequest.Validate; Compile does not re-check it.
func Compile(req domain.TripRequest) string {
	var b strings.Builder
	// Executing a parsed template into a strings.Builder with a fixed struct
	// cannot fail.
	_ = tmpl.Execute(&b, toFields(req))
	return b.String()
}

func toFields(req domain.TripRequest) fields {
	return fields{
		Destination: req.Destination,
		Dates:       dateLine(req),
		Duration:    durationLine(req),
		Budget:      strconv.FormatFloat(req.TravelBudget, 'f', -1, 64),
		Preferences: strings.Join(req.ActivityPreferences, ", "),
		Style:       string(req.TravelStyle),
		Intensity:   string(req.ActivityIntensity),
	}
}

// dateLine prefers explicit dates. Without them the line carries only the
// duration, with no end-date text.
func dateLine(req domain.TripRequest) string {
	if req.HasDates() {
		return "from " + req.StartDate.Format(domain.DateLayout) + " to " + req.EndDate.Format(domain.DateLayout)
	}
	return strconv.Itoa(req.DurationDays()) + " days duration"
}

func durationLine(req domain.TripRequest) string {
	n := req.DurationDays()
	if n == 1 {
		return "1 day"
	}
	return strconv.Itoa(n) + " days"
}
