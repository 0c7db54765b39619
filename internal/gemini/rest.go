package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/smarttrip/tripplanner/internal/reconcile"
)

// Defaults for the public Gemini API.
const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1beta"
)

// TransportConfig configures either transport.
type TransportConfig struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	// Timeout is a backstop on the HTTP client; the Client's context
	// deadline normally fires first.
	Timeout time.Duration
}

// StatusError is returned by the REST transport for non-2xx replies.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// RESTTransport calls the generateContent endpoint over plain HTTP.
type RESTTransport struct {
	client  *resty.Client
	version string
}

var _ Transport = (*RESTTransport)(nil)

// NewRESTTransport builds a resty client for the Gemini REST API.
func NewRESTTransport(cfg TransportConfig) *RESTTransport {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetTimeout(timeout)

	return &RESTTransport{client: c, version: version}
}

// Name implements Transport.
func (t *RESTTransport) Name() string { return "rest" }

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// GenerateContent implements Transport.
func (t *RESTTransport) GenerateContent(ctx context.Context, model, prompt string) (*Response, error) {
	body := generateRequest{
		Contents: []requestContent{{Role: "user", Parts: []Part{{Text: prompt}}}},
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"version": t.version, "model": model}).
		SetBody(&body).
		Post("/{version}/models/{model}:generateContent")
	if err != nil {
		return nil, fmt.Errorf("gemini.RESTTransport.GenerateContent: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gemini.RESTTransport.GenerateContent: %w",
			&StatusError{Code: resp.StatusCode(), Body: reconcile.Truncate(resp.String(), 200)})
	}

	var out Response
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("gemini.RESTTransport.GenerateContent: %w: %v", ErrResponseShape, err)
	}
	return &out, nil
}
