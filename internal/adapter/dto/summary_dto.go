package dto

import "github.com/johnquangdev/meeting-summarizer/internal/domain/entities"

// TranscribeResponse is returned once a transcription job was accepted
type TranscribeResponse struct {
	TranscriptID string `json:"transcriptId" example:"abc123"`
}

// SummarizeRequest carries the transcript to summarize
type SummarizeRequest struct {
	Transcript string `json:"transcript" validate:"required" example:"Let's ship v2 Friday."`
}

// SummaryResponse is the structured summary of a transcript
type SummaryResponse struct {
	Summary      string   `json:"summary" example:"The team agreed on the v2 release date."`
	KeyDecisions []string `json:"keyDecisions"`
	ActionItems  []string `json:"actionItems"`
}

// TranscriptResponse documents the provider job object relayed by
// GET /api/transcript/:id. Only the fields clients rely on are listed.
type TranscriptResponse struct {
	ID     string `json:"id" example:"abc123"`
	Status string `json:"status" example:"completed" enums:"queued,processing,completed,error"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewSummaryResponse maps a SummaryResult onto the wire shape
func NewSummaryResponse(r *entities.SummaryResult) SummaryResponse {
	return SummaryResponse{
		Summary:      r.Summary(),
		KeyDecisions: r.KeyDecisions(),
		ActionItems:  r.ActionItems(),
	}
}
