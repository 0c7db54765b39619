// Package gemini is the generation client: it sends a prompt to Google's
// Gemini generateContent API and returns the generated text.
//
// Two transports are available. The SDK transport uses google.golang.org/genai;
// the REST transport talks to the HTTP endpoint directly with resty, which is
// useful behind proxies or when pinning an API version the SDK does not offer.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/smarttrip/tripplanner/internal/domain"
	"github.com/smarttrip/tripplanner/internal/metrics"
)

// DefaultModel and DefaultTimeout apply when Config leaves them empty.
const (
	DefaultModel   = "gemini-2.0-flash-exp"
	DefaultTimeout = 60 * time.Second
)

// Transport performs one generateContent call.
// Implementations must be safe for concurrent use.
type Transport interface {
	GenerateContent(ctx context.Context, model, prompt string) (*Response, error)
	// Name labels the transport in logs and metrics.
	Name() string
}

// Config is the read-only configuration of a Client.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client generates text for prompts. It holds no mutable state.
type Client struct {
	cfg       Config
	transport Transport
	log       *slog.Logger
}

// NewClient constructs a Client. transport may be nil when no API key is
// configured; every Generate call then fails with domain.ErrConfiguration.
func NewClient(cfg Config, transport Transport, log *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{cfg: cfg, transport: transport, log: log}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// Generate sends prompt to the provider and returns the generated text.
//
// Errors wrap one of:
//   - domain.ErrConfiguration: no API key, or ErrResponseShape
//   - domain.ErrServiceUnavailable: transport, provider or timeout failure
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" || c.transport == nil {
		c.log.ErrorContext(ctx, "gemini API key is not configured")
		metrics.ObserveGenerationFailure("configuration")
		return "", fmt.Errorf("gemini.Client.Generate: %w: API key is not configured", domain.ErrConfiguration)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	c.log.InfoContext(ctx, "calling generation provider",
		"model", c.cfg.Model,
		"transport", c.transport.Name(),
		"prompt_chars", len(prompt),
	)

	start := time.Now()
	resp, err := c.transport.GenerateContent(ctx, c.cfg.Model, prompt)
	elapsed := time.Since(start)
	metrics.ObserveGeneration(c.transport.Name(), elapsed)

	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			metrics.ObserveGenerationFailure("configuration")
			c.log.ErrorContext(ctx, "generation provider rejected configuration", "error", err)
			return "", fmt.Errorf("gemini.Client.Generate: %w", err)
		}
		metrics.ObserveGenerationFailure("unavailable")
		c.log.ErrorContext(ctx, "generation provider call failed",
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
		return "", fmt.Errorf("gemini.Client.Generate: %w: %w", domain.ErrServiceUnavailable, err)
	}

	text, ok := Extract(resp)
	if !ok {
		metrics.ObserveGenerationFailure("shape")
		var candidates, parts int
		if resp != nil {
			candidates, parts = len(resp.Candidates), len(resp.Parts)
		}
		c.log.WarnContext(ctx, "unexpected generation response shape",
			"candidates", candidates,
			"parts", parts,
		)
		return "", fmt.Errorf("gemini.Client.Generate: %w", ErrResponseShape)
	}

	c.log.InfoContext(ctx, "received generation response",
		"duration_ms", elapsed.Milliseconds(),
		"response_chars", len(text),
	)
	return text, nil
}
