package presenter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/johnquangdev/meeting-summarizer/internal/usecase/workflow"
)

// StepState is the display state of one pipeline step
type StepState int

const (
	StepPending StepState = iota
	StepActive
	StepDone
	StepFailed
)

// Step is one entry of the staged progress line
type Step struct {
	Label string
	State StepState
}

var stepLabels = []string{"Uploading", "Transcribing", "Summarizing", "Complete"}

// Colors
var (
	primaryColor   = lipgloss.Color("39")  // Blue
	secondaryColor = lipgloss.Color("245") // Gray
	errorColor     = lipgloss.Color("196") // Red
	successColor   = lipgloss.Color("82")  // Green
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	pendingStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	activeStyle  = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	doneStyle    = lipgloss.NewStyle().Foreground(successColor)
	failedStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	errorBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Foreground(errorColor).
			Padding(0, 1)

	transcriptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			PaddingLeft(2)

	hintStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Italic(true)
)

// ToSteps maps a workflow state onto the four pipeline steps
func ToSteps(s workflow.State) []Step {
	active := -1
	failed := -1
	switch s.Status {
	case workflow.StatusUploading:
		active = 0
	case workflow.StatusTranscribing:
		active = 1
	case workflow.StatusSummarizing:
		active = 2
	case workflow.StatusCompleted:
		active = len(stepLabels)
	case workflow.StatusError:
		switch s.FailedAt {
		case workflow.StagePoll:
			failed = 1
		case workflow.StageSummarize:
			failed = 2
		default:
			failed = 0
		}
	}

	steps := make([]Step, len(stepLabels))
	for i, label := range stepLabels {
		steps[i] = Step{Label: label, State: StepPending}
		switch {
		case failed >= 0 && i < failed, active >= 0 && i < active:
			steps[i].State = StepDone
		case i == failed:
			steps[i].State = StepFailed
		case i == active:
			steps[i].State = StepActive
		}
	}
	return steps
}

// RenderSteps draws the staged progress line
func RenderSteps(steps []Step) string {
	parts := make([]string, len(steps))
	for i, step := range steps {
		switch step.State {
		case StepDone:
			parts[i] = doneStyle.Render("✓ " + step.Label)
		case StepActive:
			parts[i] = activeStyle.Render("● " + step.Label)
		case StepFailed:
			parts[i] = failedStyle.Render("✗ " + step.Label)
		default:
			parts[i] = pendingStyle.Render("○ " + step.Label)
		}
	}
	return strings.Join(parts, pendingStyle.Render(" → "))
}

// RenderWorkflow draws the full view for a workflow state
func RenderWorkflow(s workflow.State) string {
	var b strings.Builder

	title := "Meeting Summarizer"
	if s.FileName != "" {
		title += " · " + s.FileName
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if s.Status == workflow.StatusIdle {
		if s.FileName == "" {
			b.WriteString(hintStyle.Render("Select an audio file to analyze."))
		} else {
			b.WriteString(hintStyle.Render("Ready to analyze."))
		}
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(RenderSteps(ToSteps(s)))
	b.WriteString("\n")

	switch s.Status {
	case workflow.StatusError:
		b.WriteString("\n")
		b.WriteString(errorBox.Render(s.Err))
		b.WriteString("\n")
	case workflow.StatusCompleted:
		b.WriteString(renderResult(s))
	}
	return b.String()
}

func renderResult(s workflow.State) string {
	var b strings.Builder

	if s.Summary != nil {
		section(&b, "Summary")
		b.WriteString(s.Summary.Summary())
		b.WriteString("\n")

		section(&b, "Key Decisions")
		writeList(&b, s.Summary.KeyDecisions(), "No key decisions were recorded.")

		section(&b, "Action Items")
		writeList(&b, s.Summary.ActionItems(), "No action items were recorded.")
	}

	section(&b, "Transcript")
	if s.NoSpeech() {
		b.WriteString(hintStyle.Render(workflow.NoSpeechText))
	} else {
		b.WriteString(transcriptStyle.Render(s.Transcript))
	}
	b.WriteString("\n")
	return b.String()
}

func section(b *strings.Builder, heading string) {
	b.WriteString("\n")
	b.WriteString(headingStyle.Render(heading))
	b.WriteString("\n")
}

func writeList(b *strings.Builder, items []string, empty string) {
	if len(items) == 0 {
		b.WriteString(hintStyle.Render(empty))
		b.WriteString("\n")
		return
	}
	for _, item := range items {
		b.WriteString("  • ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}
