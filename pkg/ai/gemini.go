package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// ErrEmptyResponse is returned when a provider answers without any text
var ErrEmptyResponse = errors.New("empty response from provider")

// GeminiClient generates structured summaries with Google Gemini
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client. httpClient may be nil.
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, httpClient *http.Client) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Name identifies the provider in logs and errors
func (g *GeminiClient) Name() string { return "gemini" }

// summarySchema constrains the reply to {summary, keyDecisions, actionItems}
func summarySchema() *genai.Schema {
	stringList := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			SummaryKeySummary:      {Type: genai.TypeString},
			SummaryKeyKeyDecisions: stringList,
			SummaryKeyActionItems:  stringList,
		},
		Required:         []string{SummaryKeySummary, SummaryKeyKeyDecisions, SummaryKeyActionItems},
		PropertyOrdering: []string{SummaryKeySummary, SummaryKeyKeyDecisions, SummaryKeyActionItems},
	}
}

// GenerateSummary sends the transcript to Gemini and returns the JSON text of
// the first candidate.
func (g *GeminiClient) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: SummaryUserPrompt(transcript)}},
	}}
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: SummarySystemPrompt}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   summarySchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrEmptyResponse)
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 ||
		candidate.Content.Parts[0] == nil || candidate.Content.Parts[0].Text == "" {
		return "", fmt.Errorf("%w: gemini candidate has no text", ErrEmptyResponse)
	}
	return candidate.Content.Parts[0].Text, nil
}
