// Package gemini implements the response generator on top of the Gemini
// API via the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
)

// DefaultModel is the completion model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Provider implements core.Generator using the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

// Option configures the provider.
type Option func(*Provider)

// WithModel overrides the completion model.
func WithModel(model string) Option {
	return func(p *Provider) { p.model = model }
}

// New creates a new Gemini provider.
func New(ctx context.Context, apiKey string, opts ...Option) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	p := &Provider{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "gemini"
}

// Generate sends the persona prompt plus one user utterance and returns
// the reply text. The persona rides as the system instruction.
func (p *Provider) Generate(ctx context.Context, persona core.Persona, utterance string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(persona.Prompt(), genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(utterance), cfg)
	if err != nil {
		return "", core.NewGenerationError(p.Name(), err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", core.NewGenerationError(p.Name(), fmt.Errorf("response contained no text"))
	}
	return reply, nil
}
