package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttrip/tripplanner/internal/middleware"
)

const frontend = "http://localhost:5173"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func corsDo(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	middleware.NewCORSHandler([]string{frontend})(okHandler).ServeHTTP(rec, req)
	return rec
}

func TestCORSHandler_allowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/history/export?format=csv", nil)
	req.Header.Set("Origin", frontend)

	rec := corsDo(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, frontend, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSHandler_disallowedOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Origin", "http://evil.example.com")

	rec := corsDo(t, req)

	// The request still reaches the handler; the browser blocks the response.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSHandler_preflight(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		headers   string
		wantAllow bool
	}{
		// Browsers send Access-Control-Request-Headers lowercased.
		{"bearer planning post", http.MethodPost, "authorization,content-type", true},
		{"delete is not exposed", http.MethodDelete, "", false},
		{"unknown header", http.MethodPost, "x-api-key", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/planning", nil)
			req.Header.Set("Origin", frontend)
			req.Header.Set("Access-Control-Request-Method", tc.method)
			if tc.headers != "" {
				req.Header.Set("Access-Control-Request-Headers", tc.headers)
			}

			rec := corsDo(t, req)

			assert.Less(t, rec.Code, 300, "preflight should not fail outright")
			if tc.wantAllow {
				assert.Equal(t, frontend, rec.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
