package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Arjgorithmic/VoiceBot/pkg/core"
)

// DefaultBaseURL is the default transcription endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

const defaultModel = "whisper-1"

// WhisperProvider implements the STT Provider interface against an
// OpenAI-compatible /audio/transcriptions endpoint.
type WhisperProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a WhisperProvider.
type Option func(*WhisperProvider)

// WithBaseURL points the provider at a compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(p *WhisperProvider) { p.baseURL = baseURL }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *WhisperProvider) { p.httpClient = client }
}

// NewWhisper creates a new whisper STT provider.
func NewWhisper(apiKey string, opts ...Option) *WhisperProvider {
	p := &WhisperProvider{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier.
func (p *WhisperProvider) Name() string {
	return "whisper"
}

// Transcribe converts audio to text via the transcription endpoint.
func (p *WhisperProvider) Transcribe(ctx context.Context, audio io.Reader, opts TranscribeOptions) (*Transcript, error) {
	audioData, err := io.ReadAll(audio)
	if err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("read audio: %v", err), err)
	}
	if len(audioData) == 0 {
		// Nothing to send upstream; an empty clip can never carry speech.
		return nil, core.NewUnintelligibleError()
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", "audio."+getExtension(opts.Format))
	if err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("create form file: %v", err), err)
	}
	if _, err := fw.Write(audioData); err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("write audio data: %v", err), err)
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	if err := mw.WriteField("model", model); err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("write model field: %v", err), err)
	}
	if opts.Language != "" {
		if err := mw.WriteField("language", opts.Language); err != nil {
			return nil, core.NewSTTUnavailableError(fmt.Sprintf("write language field: %v", err), err)
		}
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("write format field: %v", err), err)
	}
	if err := mw.Close(); err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("close multipart writer: %v", err), err)
	}

	reqURL := strings.TrimRight(p.baseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("create request: %v", err), err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("transcription request: %v", err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, core.NewSTTUnavailableError(
			fmt.Sprintf("transcription error %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var whisperResp transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&whisperResp); err != nil {
		return nil, core.NewSTTUnavailableError(fmt.Sprintf("parse response: %v", err), err)
	}

	if strings.TrimSpace(whisperResp.Text) == "" {
		return nil, core.NewUnintelligibleError()
	}

	return &Transcript{
		Text:     strings.TrimSpace(whisperResp.Text),
		Language: whisperResp.Language,
		Duration: whisperResp.Duration,
	}, nil
}

type transcriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// getExtension returns the file extension for the given audio format.
func getExtension(format string) string {
	switch format {
	case "wav", "mp3", "webm", "ogg", "flac", "m4a", "mp4", "mpeg", "mpga", "oga":
		return format
	default:
		return "wav"
	}
}
