package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// Status is the UI-facing stage of a workflow run
type Status string

const (
	StatusIdle         Status = "idle"
	StatusUploading    Status = "uploading"
	StatusTranscribing Status = "transcribing"
	StatusSummarizing  Status = "summarizing"
	StatusCompleted    Status = "completed"
	StatusError        Status = "error"
)

// InFlight reports whether a run is currently executing in this status
func (s Status) InFlight() bool {
	return s == StatusUploading || s == StatusTranscribing || s == StatusSummarizing
}

// Stage identifies where a failure happened
type Stage string

const (
	StageUpload    Stage = "upload"
	StagePoll      Stage = "poll"
	StageSummarize Stage = "summarize"
)

// User-facing failure messages
const (
	msgUploadFailed        = "Transcription request failed: "
	msgPollFailed          = "An error occurred while polling for transcript: "
	msgTranscriptionFailed = "Transcription failed. The audio format might be unsupported or the file could be corrupt."
	msgSummarizeFailed     = "Summarization failed: "

	// NoSpeechText is shown in place of an empty transcript
	NoSpeechText = "The audio file was empty or contained no speech."
)

var (
	ErrInvalidTransition = errors.New("invalid workflow transition")
	ErrStaleEvent        = errors.New("event belongs to a superseded run")
)

// EventKind enumerates the inputs to Transition
type EventKind int

const (
	EventFileSelected EventKind = iota
	EventAnalyzeRequested
	EventUploadSucceeded
	EventJobProgress
	EventTranscriptReady
	EventSummaryReady
	EventStageFailed
	EventReset
)

var eventNames = map[EventKind]string{
	EventFileSelected:     "file_selected",
	EventAnalyzeRequested: "analyze_requested",
	EventUploadSucceeded:  "upload_succeeded",
	EventJobProgress:      "job_progress",
	EventTranscriptReady:  "transcript_ready",
	EventSummaryReady:     "summary_ready",
	EventStageFailed:      "stage_failed",
	EventReset:            "reset",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one input to the state machine. Run must match the current
// State.Run for every event produced by an in-flight run.
type Event struct {
	Kind      EventKind
	Run       uint64
	FileName  string
	Job       *entities.Job
	Text      string
	Summary   *entities.SummaryResult
	Stage     Stage
	Err       error
	ClearFile bool
}

// State is a snapshot of one workflow run. At most one Job and one
// SummaryResult are live at a time.
type State struct {
	Status     Status                  `json:"status"`
	FileName   string                  `json:"fileName,omitempty"`
	Job        *entities.Job           `json:"job,omitempty"`
	Transcript string                  `json:"transcript,omitempty"`
	Summary    *entities.SummaryResult `json:"summary,omitempty"`
	Err        string                  `json:"error,omitempty"`
	FailedAt   Stage                   `json:"failedAt,omitempty"`
	Run        uint64                  `json:"run"`
}

// NoSpeech reports whether the run completed with an empty transcript
func (s State) NoSpeech() bool {
	return s.Status == StatusCompleted && s.Summary == nil && strings.TrimSpace(s.Transcript) == ""
}

// Transition computes the next state for ev. Rejected events return the
// unchanged state together with ErrStaleEvent or ErrInvalidTransition.
func Transition(s State, ev Event) (State, error) {
	switch ev.Kind {
	case EventFileSelected:
		return State{Status: StatusIdle, FileName: ev.FileName, Run: s.Run + 1}, nil

	case EventReset:
		next := State{Status: StatusIdle, FileName: s.FileName, Run: s.Run + 1}
		if ev.ClearFile {
			next.FileName = ""
		}
		return next, nil

	case EventAnalyzeRequested:
		if s.Status.InFlight() {
			return s, invalid(s, ev)
		}
		if s.FileName == "" {
			return s, fmt.Errorf("%w: no file selected", ErrInvalidTransition)
		}
		return State{Status: StatusUploading, FileName: s.FileName, Run: s.Run + 1}, nil
	}

	if ev.Run != s.Run {
		return s, fmt.Errorf("%w: run %d, current %d", ErrStaleEvent, ev.Run, s.Run)
	}

	next := s
	switch ev.Kind {
	case EventUploadSucceeded:
		if s.Status != StatusUploading || ev.Job == nil {
			return s, invalid(s, ev)
		}
		next.Status = StatusTranscribing
		next.Job = cloneJob(ev.Job)

	case EventJobProgress:
		if s.Status != StatusTranscribing || ev.Job == nil {
			return s, invalid(s, ev)
		}
		next.Job = cloneJob(ev.Job)

	case EventTranscriptReady:
		if s.Status != StatusTranscribing {
			return s, invalid(s, ev)
		}
		job := cloneJob(s.Job)
		if ev.Job != nil {
			job = cloneJob(ev.Job)
		}
		if job != nil {
			text := ev.Text
			job.Status = entities.JobStatusCompleted
			job.ResultText = &text
		}
		next.Job = job
		next.Transcript = ev.Text
		if strings.TrimSpace(ev.Text) == "" {
			next.Status = StatusCompleted
		} else {
			next.Status = StatusSummarizing
		}

	case EventSummaryReady:
		if s.Status != StatusSummarizing || ev.Summary == nil {
			return s, invalid(s, ev)
		}
		next.Status = StatusCompleted
		next.Summary = ev.Summary

	case EventStageFailed:
		if !s.Status.InFlight() {
			return s, invalid(s, ev)
		}
		next.Status = StatusError
		next.Err = FailureMessage(ev.Stage, ev.Err)
		next.FailedAt = ev.Stage

	default:
		return s, invalid(s, ev)
	}
	return next, nil
}

// FailureMessage renders the human-readable message for a stage failure
func FailureMessage(stage Stage, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	switch stage {
	case StageUpload:
		return msgUploadFailed + detail
	case StagePoll:
		if errors.Is(err, entities.ErrTranscriptionFailed) {
			return msgTranscriptionFailed
		}
		return msgPollFailed + detail
	case StageSummarize:
		return msgSummarizeFailed + detail
	default:
		return detail
	}
}

func invalid(s State, ev Event) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, ev.Kind, s.Status)
}

func cloneJob(j *entities.Job) *entities.Job {
	if j == nil {
		return nil
	}
	c := *j
	if j.ResultText != nil {
		text := *j.ResultText
		c.ResultText = &text
	}
	return &c
}
