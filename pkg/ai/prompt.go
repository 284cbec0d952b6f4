package ai

import (
	"context"
	"fmt"
)

// SummarySystemPrompt instructs the model to return the structured summary object
const SummarySystemPrompt = "You are an expert meeting assistant. Your task is to analyze a meeting transcript and provide a structured summary. The output must be a valid JSON object with the following keys: 'summary', 'keyDecisions', and 'actionItems'. 'summary' should be a concise paragraph. 'keyDecisions' should be an array of strings. 'actionItems' should be an array of strings, each being a clear, actionable task."

// Keys of the structured summary object
const (
	SummaryKeySummary      = "summary"
	SummaryKeyKeyDecisions = "keyDecisions"
	SummaryKeyActionItems  = "actionItems"
)

// Summarizer generates the raw JSON text of a structured meeting summary
type Summarizer interface {
	GenerateSummary(ctx context.Context, transcript string) (string, error)
	Name() string
}

// SummaryUserPrompt wraps the transcript for the user turn
func SummaryUserPrompt(transcript string) string {
	return fmt.Sprintf("Here is the meeting transcript:\n\n%s", transcript)
}
