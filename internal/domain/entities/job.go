package entities

import "fmt"

// JobStatus represents the status of a transcription job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// providerStatusError is AssemblyAI's name for a failed job
const providerStatusError = "error"

// ParseJobStatus maps a provider status string onto JobStatus.
func ParseJobStatus(raw string) (JobStatus, error) {
	switch raw {
	case string(JobStatusQueued):
		return JobStatusQueued, nil
	case string(JobStatusProcessing):
		return JobStatusProcessing, nil
	case string(JobStatusCompleted):
		return JobStatusCompleted, nil
	case string(JobStatusFailed), providerStatusError:
		return JobStatusFailed, nil
	default:
		return "", fmt.Errorf("%w: unknown job status %q", ErrUpstreamShape, raw)
	}
}

// IsTerminal reports whether no further polling is needed
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is a unit of transcription work tracked by the provider-issued ID
type Job struct {
	ID         string    `json:"id"`
	Status     JobStatus `json:"status"`
	ResultText *string   `json:"text,omitempty"`
	// Error carries the provider's failure reason when Status is failed
	Error string `json:"error,omitempty"`
}

// NewJob creates a freshly accepted job
func NewJob(id string) *Job {
	return &Job{
		ID:     id,
		Status: JobStatusQueued,
	}
}

// Text returns the transcript text, empty when none was produced
func (j *Job) Text() string {
	if j == nil || j.ResultText == nil {
		return ""
	}
	return *j.ResultText
}
