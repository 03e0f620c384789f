// Package gemini implements the generation provider against the Google
// Generative Language REST API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/meenagpt/chat-service/internal/genai"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Provider is a thin adapter over the generateContent endpoint. The resty
// client is constructed once at startup and reused across calls.
type Provider struct {
	client *resty.Client
	apiKey string
	model  string
}

// New creates a provider for the given model. baseURL may be empty to use
// the public endpoint; tests point it at a local server.
func New(baseURL, apiKey, model string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second)
	return &Provider{client: client, apiKey: apiKey, model: model}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt as the sole content of a single-turn request
// and returns the generated text. Conversation history is not passed; each
// turn is stateless from the model's perspective.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("key", p.apiKey).
		SetBody(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		SetResult(&out).
		SetError(&out).
		Post(fmt.Sprintf("/v1/models/%s:generateContent", p.model))
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	if resp.IsError() {
		if out.Error.Message != "" {
			return "", fmt.Errorf("generate status %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("generate status %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", genai.ErrEmptyResponse
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
