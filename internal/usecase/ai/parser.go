package ai

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// Parser validates provider responses at the boundary
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSummaryResponse parses the provider's JSON text into a SummaryResult
func (p *Parser) ParseSummaryResponse(raw string) (*entities.SummaryResult, error) {
	jsonString := extractJSON(raw)
	if jsonString == "" {
		return nil, fmt.Errorf("%w: empty summary response", entities.ErrUpstreamShape)
	}
	return entities.ParseSummaryResult([]byte(jsonString))
}

// ParseJob converts a provider transcript object into a Job
func (p *Parser) ParseJob(id, status string, text, errMsg *string) (*entities.Job, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: transcript id missing", entities.ErrUpstreamShape)
	}
	st, err := entities.ParseJobStatus(status)
	if err != nil {
		return nil, err
	}
	job := &entities.Job{ID: id, Status: st}
	if st == entities.JobStatusCompleted {
		t := ""
		if text != nil {
			t = *text
		}
		job.ResultText = &t
	}
	if errMsg != nil {
		job.Error = *errMsg
	}
	return job, nil
}

// extractJSON strips markdown code fences some models wrap around JSON
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
