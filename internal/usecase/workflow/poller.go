package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/pkg/jobcontext"
)

// DefaultPollInterval is the fixed delay between status requests
const DefaultPollInterval = 3 * time.Second

// ErrPollLimit is returned when a job is still pending after the configured
// maximum number of status requests.
var ErrPollLimit = errors.New("transcript still pending after maximum poll count")

// errNotReady schedules the next status request
var errNotReady = errors.New("transcript not ready")

// StatusFetcher returns the current state of a transcription job
type StatusFetcher func(ctx context.Context, transcriptID string) (*entities.Job, error)

// Poller queries a job on a fixed interval until it reaches a terminal status
type Poller struct {
	fetch    StatusFetcher
	interval time.Duration
	maxPolls int
	clock    clock.Clock
	logger   *zap.Logger
}

// PollerOption configures a Poller
type PollerOption func(*Poller)

// WithInterval overrides the delay between status requests
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithMaxPolls bounds the number of status requests; 0 means unlimited
func WithMaxPolls(n int) PollerOption {
	return func(p *Poller) { p.maxPolls = n }
}

// WithClock swaps the time source, used by tests to simulate time
func WithClock(c clock.Clock) PollerOption {
	return func(p *Poller) { p.clock = c }
}

// WithPollerLogger sets the poller's logger
func WithPollerLogger(logger *zap.Logger) PollerOption {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPoller creates a poller issuing requests through fetch
func NewPoller(fetch StatusFetcher, opts ...PollerOption) *Poller {
	p := &Poller{
		fetch:    fetch,
		interval: DefaultPollInterval,
		clock:    clock.New(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Poll issues the first status request immediately and then one per
// interval. It returns the completed job, or stops on the first failed
// status, transport error or context cancellation. onProgress observes each
// non-terminal status.
func (p *Poller) Poll(ctx context.Context, transcriptID string, onProgress func(*entities.Job)) (*entities.Job, error) {
	var (
		completed *entities.Job
		polls     int
	)

	operation := func() error {
		polls++
		job, err := p.fetch(ctx, transcriptID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if job == nil {
			return backoff.Permanent(fmt.Errorf("%w: empty job status", entities.ErrUpstreamShape))
		}

		switch job.Status {
		case entities.JobStatusCompleted:
			completed = job
			return nil
		case entities.JobStatusFailed:
			reason := job.Error
			if reason == "" {
				reason = "provider reported failure"
			}
			return backoff.Permanent(fmt.Errorf("%w: %s", entities.ErrTranscriptionFailed, reason))
		}

		if onProgress != nil {
			onProgress(job)
		}
		if p.maxPolls > 0 && polls >= p.maxPolls {
			return backoff.Permanent(fmt.Errorf("%w (%d)", ErrPollLimit, p.maxPolls))
		}
		return errNotReady
	}

	notify := func(_ error, next time.Duration) {
		fields := append(jobcontext.Fields(ctx),
			zap.String("transcript_id", transcriptID),
			zap.Int("poll", polls),
			zap.Duration("next", next),
		)
		p.logger.Debug("transcript pending", fields...)
	}

	schedule := backoff.WithContext(backoff.NewConstantBackOff(p.interval), ctx)
	timer := &clockTimer{clock: p.clock}
	if err := backoff.RetryNotifyWithTimer(operation, schedule, notify, timer); err != nil {
		return nil, err
	}
	return completed, nil
}

// clockTimer drives backoff's schedule from a clock.Clock
type clockTimer struct {
	clock clock.Clock
	timer *clock.Timer
}

func (t *clockTimer) Start(d time.Duration) {
	t.Stop()
	t.timer = t.clock.Timer(d)
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.timer.C
}
