// Package provider wraps the OpenAI-compatible inference API (OpenRouter)
// behind a minimal invoke call.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const systemPrompt = "You are a data extraction engine. Extract structured data " +
	"from the supplied image and respond with a single JSON object only, no " +
	"commentary. The output must conform to this JSON schema:\n\n%s"

// Request is one inference call: extract JSON from one image with one model.
type Request struct {
	ModelID  string
	ImageURL string
	Prompt   string
	Schema   map[string]any
}

// Response is the normalized provider result.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
}

// Client calls vision models through an OpenAI-compatible API.
type Client struct {
	api *openai.Client
}

func NewClient(baseURL, apiKey string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cfg.BaseURL = baseURL
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// Invoke makes exactly one chat-completion call with the image attached.
// Timeouts are the caller's responsibility via ctx.
func (c *Client) Invoke(ctx context.Context, req Request) (*Response, error) {
	schemaJSON, err := json.Marshal(req.Schema)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPrompt, schemaJSON),
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: req.ImageURL},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	latency := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", req.ModelID, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("calling %s: empty response", req.ModelID)
	}

	return &Response{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Latency:      latency,
	}, nil
}
