package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/smarttrip/tripplanner/internal/domain"
)

// SDKTransport calls Gemini through the official genai SDK.
type SDKTransport struct {
	client *genai.Client
}

var _ Transport = (*SDKTransport)(nil)

// NewSDKTransport creates the genai client. The key is checked here as well
// because the SDK would otherwise fall back to ambient credentials.
func NewSDKTransport(ctx context.Context, cfg TransportConfig) (*SDKTransport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini.NewSDKTransport: %w: API key is required", domain.ErrConfiguration)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: cfg.APIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini.NewSDKTransport: %w", err)
	}
	return &SDKTransport{client: client}, nil
}

// Name implements Transport.
func (t *SDKTransport) Name() string { return "sdk" }

// GenerateContent implements Transport.
func (t *SDKTransport) GenerateContent(ctx context.Context, model, prompt string) (*Response, error) {
	resp, err := t.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini.SDKTransport.GenerateContent: %w", err)
	}
	return fromSDK(resp), nil
}

// fromSDK copies the SDK reply into the neutral envelope. The SDK has no
// top-level parts list, so Parts stays empty.
func fromSDK(resp *genai.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	out.Text = resp.Text()
	for _, c := range resp.Candidates {
		var cand Candidate
		if c != nil && c.Content != nil {
			content := &Content{}
			for _, p := range c.Content.Parts {
				if p == nil {
					continue
				}
				content.Parts = append(content.Parts, Part{Text: p.Text})
			}
			cand.Content = content
		}
		out.Candidates = append(out.Candidates, cand)
	}
	return out
}
