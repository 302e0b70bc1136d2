// Package openai implements the response generator against the OpenAI
// Chat Completions API.
package openai

import (
	"context"
	"net/http"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
)

const (
	// DefaultBaseURL is the default OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel matches the model the assistant shipped with.
	DefaultModel = "gpt-4"
)

// Provider implements core.Generator using Chat Completions.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures the provider.
type Option func(*Provider)

// WithBaseURL points the provider at an OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) { p.baseURL = baseURL }
}

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// New creates a new OpenAI provider.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "openai"
}

// Generate sends the persona prompt plus one user utterance and returns
// the reply text.
func (p *Provider) Generate(ctx context.Context, persona core.Persona, utterance string) (string, error) {
	req := &chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: persona.Prompt()},
			{Role: "user", Content: utterance},
		},
	}

	respBody, err := p.doRequest(ctx, req)
	if err != nil {
		return "", err
	}

	return p.parseResponse(respBody)
}
