package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// GroqClient generates structured summaries through Groq's OpenAI-compatible API
type GroqClient struct {
	client *openai.Client
	model  string
}

// NewGroqClient creates a Groq client using values from the provided config.
func NewGroqClient(cfg *config.GroqConfig, httpClient *http.Client) *GroqClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &GroqClient{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}
}

// Name identifies the provider in logs and errors
func (g *GroqClient) Name() string { return "groq" }

// GenerateSummary sends the transcript to Groq and returns the assistant content
func (g *GroqClient) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SummarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: SummaryUserPrompt(transcript)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: groq returned no choices", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
