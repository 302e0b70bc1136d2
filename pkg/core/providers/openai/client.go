package openai

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

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}

// doRequest sends a non-streaming request to OpenAI.
func (p *Provider) doRequest(ctx context.Context, req *chatRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, core.NewGenerationError(p.Name(), fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.chatCompletionsURL(), bytes.NewReader(body))
	if err != nil {
		return nil, core.NewGenerationError(p.Name(), fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewGenerationError(p.Name(), fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, p.parseError(resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewGenerationError(p.Name(), fmt.Errorf("read response: %w", err))
	}
	return respBody, nil
}

// parseError turns an error response into a generation error carrying the
// upstream detail.
func (p *Provider) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var parsed struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return core.NewGenerationError(p.Name(),
			fmt.Errorf("%s (status %d)", parsed.Error.Message, resp.StatusCode))
	}
	return core.NewGenerationError(p.Name(),
		fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
}

func (p *Provider) parseResponse(respBody []byte) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", core.NewGenerationError(p.Name(), fmt.Errorf("parse response: %w", err))
	}
	if parsed.Error != nil {
		return "", core.NewGenerationError(p.Name(), fmt.Errorf("%s", parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return "", core.NewGenerationError(p.Name(), fmt.Errorf("response contained no choices"))
	}
	return parsed.Choices[0].Message.Content, nil
}

func (p *Provider) chatCompletionsURL() string {
	return strings.TrimRight(p.baseURL, "/") + "/chat/completions"
}
