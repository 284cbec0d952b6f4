package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/pkg/jobcontext"
)

// Backend is the remote relay the workflow drives
type Backend interface {
	Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error)
	TranscriptStatus(ctx context.Context, transcriptID string) (*entities.Job, error)
	Summarize(ctx context.Context, transcript string) (*entities.SummaryResult, error)
}

// File is a selected recording. Open is called once per analysis.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Observer receives every accepted state. It runs with the controller lock
// held and must not call back into the Controller.
type Observer func(State)

// Controller sequences upload, polling and summarization for one file at a
// time and owns the only mutable State.
type Controller struct {
	backend  Backend
	poller   *Poller
	logger   *zap.Logger
	observer Observer

	mu     sync.Mutex
	state  State
	file   *File
	cancel context.CancelFunc
}

// NewController creates a controller in the idle state
func NewController(backend Backend, poller *Poller, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if poller == nil {
		poller = NewPoller(backend.TranscriptStatus, WithPollerLogger(logger))
	}
	return &Controller{
		backend: backend,
		poller:  poller,
		logger:  logger,
		state:   State{Status: StatusIdle},
	}
}

// OnChange registers the observer notified after every transition
func (c *Controller) OnChange(observer Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = observer
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectFile discards the current run and its results, stopping any
// in-flight poll, and stages f for the next analysis.
func (c *Controller) SelectFile(f File) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	if err := c.applyLocked(Event{Kind: EventFileSelected, FileName: f.Name}); err != nil {
		return err
	}
	c.file = &f
	return nil
}

// Reset returns to idle, stopping any in-flight run. The selected file is
// kept unless clearFile is set.
func (c *Controller) Reset(clearFile bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	if err := c.applyLocked(Event{Kind: EventReset, ClearFile: clearFile}); err != nil {
		return err
	}
	if clearFile {
		c.file = nil
	}
	return nil
}

// Analyze runs the workflow for the selected file and blocks until the run
// completes, fails or is superseded. Only one run may be active.
func (c *Controller) Analyze(ctx context.Context) error {
	c.mu.Lock()
	if c.file == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: no file selected", ErrInvalidTransition)
	}
	if err := c.applyLocked(Event{Kind: EventAnalyzeRequested}); err != nil {
		c.mu.Unlock()
		return err
	}
	run := c.state.Run
	file := *c.file
	runCtx, cancel := jobcontext.RunBegin(ctx, uuid.New(), file.Name)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	c.logger.Info("workflow started", jobcontext.Fields(runCtx)...)
	return c.execute(runCtx, run, file)
}

func (c *Controller) execute(ctx context.Context, run uint64, file File) error {
	ctx = jobcontext.WithStage(ctx, string(StageUpload))
	transcriptID, err := c.upload(ctx, file)
	if err != nil {
		return c.fail(ctx, run, StageUpload, err)
	}
	if err := c.apply(Event{Kind: EventUploadSucceeded, Run: run, Job: entities.NewJob(transcriptID)}); err != nil {
		return err
	}

	ctx = jobcontext.WithJobID(jobcontext.WithStage(ctx, string(StagePoll)), transcriptID)
	job, err := c.poller.Poll(ctx, transcriptID, func(j *entities.Job) {
		// Rejected progress from a superseded run is dropped.
		_ = c.apply(Event{Kind: EventJobProgress, Run: run, Job: j})
	})
	if err != nil {
		return c.fail(ctx, run, StagePoll, err)
	}

	text := job.Text()
	if err := c.apply(Event{Kind: EventTranscriptReady, Run: run, Job: job, Text: text}); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		c.logger.Info("workflow completed without speech", jobcontext.Fields(ctx)...)
		return nil
	}

	ctx = jobcontext.WithStage(ctx, string(StageSummarize))
	summary, err := c.backend.Summarize(ctx, text)
	if err != nil {
		return c.fail(ctx, run, StageSummarize, err)
	}
	if err := c.apply(Event{Kind: EventSummaryReady, Run: run, Summary: summary}); err != nil {
		return err
	}

	c.logger.Info("workflow completed", jobcontext.Fields(ctx)...)
	return nil
}

func (c *Controller) upload(ctx context.Context, file File) (string, error) {
	if file.Open == nil {
		return "", entities.ErrMissingAudio
	}
	audio, err := file.Open()
	if err != nil {
		return "", err
	}
	defer audio.Close()
	return c.backend.Transcribe(ctx, file.Name, audio)
}

// fail moves the run into the error state and returns the stage error.
// A superseded run leaves state untouched and reports ErrStaleEvent.
func (c *Controller) fail(ctx context.Context, run uint64, stage Stage, cause error) error {
	if err := c.apply(Event{Kind: EventStageFailed, Run: run, Stage: stage, Err: cause}); err != nil {
		if errors.Is(err, ErrStaleEvent) {
			c.logger.Debug("superseded run stopped", append(jobcontext.Fields(ctx), zap.Error(cause))...)
		}
		return err
	}
	c.logger.Error("workflow failed", append(jobcontext.Fields(ctx), zap.Error(cause))...)
	return fmt.Errorf("%s: %w", stage, cause)
}

func (c *Controller) apply(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyLocked(ev)
}

func (c *Controller) applyLocked(ev Event) error {
	next, err := Transition(c.state, ev)
	if err != nil {
		return err
	}
	c.state = next
	if c.observer != nil {
		c.observer(next)
	}
	return nil
}

func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
