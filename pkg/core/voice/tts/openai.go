package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
)

// DefaultBaseURL is the default speech endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

const (
	defaultModel  = "tts-1"
	defaultVoice  = "alloy"
	defaultFormat = "mp3"
)

// OpenAIProvider implements the TTS Provider interface against an
// OpenAI-compatible /audio/speech endpoint.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures an OpenAIProvider.
type Option func(*OpenAIProvider)

// WithBaseURL points the provider at a compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(p *OpenAIProvider) { p.baseURL = baseURL }
}

// WithModel overrides the synthesis model.
func WithModel(model string) Option {
	return func(p *OpenAIProvider) { p.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *OpenAIProvider) { p.httpClient = client }
}

// NewOpenAI creates a new OpenAI TTS provider.
func NewOpenAI(apiKey string, opts ...Option) *OpenAIProvider {
	p := &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Synthesize converts text to audio via the speech endpoint.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string, opts SynthesizeOptions) (*Synthesis, error) {
	voice := opts.Voice
	if voice == "" {
		voice = defaultVoice
	}
	format := opts.Format
	if format == "" {
		format = defaultFormat
	}

	reqBody := speechRequest{
		Model:          p.model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: format,
	}
	if opts.Speed != 0 {
		reqBody.Speed = opts.Speed
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, core.NewSynthesisError(fmt.Sprintf("marshal request: %v", err), err)
	}

	reqURL := strings.TrimRight(p.baseURL, "/") + "/audio/speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, core.NewSynthesisError(fmt.Sprintf("create request: %v", err), err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, core.NewSynthesisError(fmt.Sprintf("speech request: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, core.NewSynthesisError(
			fmt.Sprintf("speech error %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody))), nil)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewSynthesisError(fmt.Sprintf("read audio: %v", err), err)
	}

	return &Synthesis{Audio: audio, Format: format}, nil
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format,omitempty"`
	Speed          float64 `json:"speed,omitempty"`
}
