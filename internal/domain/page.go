package domain

// History listing bounds. The default mirrors the "last 10" history view.
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

// HistoryLimit resolves an optional ?limit= query value against a configured
// default. Nil or non-positive values fall back to def; the result is capped
// at MaxHistoryLimit to prevent runaway queries.
func HistoryLimit(limit *int, def int) int {
	if def < 1 {
		def = DefaultHistoryLimit
	}
	n := def
	if limit != nil && *limit >= 1 {
		n = *limit
	}
	if n > MaxHistoryLimit {
		n = MaxHistoryLimit
	}
	return n
}
