package workflow

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

type fakeBackend struct {
	mu sync.Mutex

	transcriptID  string
	transcribeErr error
	status        *scriptedStatus
	summary       *entities.SummaryResult
	summarizeErr  error

	calls      []string
	uploaded   string
	summarized string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	f.record("transcribe")
	b, err := io.ReadAll(audio)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.uploaded = fileName + ":" + string(b)
	f.mu.Unlock()
	if f.transcribeErr != nil {
		return "", f.transcribeErr
	}
	return f.transcriptID, nil
}

func (f *fakeBackend) TranscriptStatus(ctx context.Context, id string) (*entities.Job, error) {
	f.record("status")
	return f.status.fetch(ctx, id)
}

func (f *fakeBackend) Summarize(ctx context.Context, transcript string) (*entities.SummaryResult, error) {
	f.record("summarize")
	f.mu.Lock()
	f.summarized = transcript
	f.mu.Unlock()
	if f.summarizeErr != nil {
		return nil, f.summarizeErr
	}
	return f.summary, nil
}

func (f *fakeBackend) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func audioFile(name string) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("RIFF....WAVE")), nil
		},
	}
}

// statusRecorder collects observed statuses
type statusRecorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *statusRecorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s.Status)
}

func (r *statusRecorder) snapshot() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}

func newTestController(backend *fakeBackend, mock *clock.Mock) *Controller {
	poller := NewPoller(backend.TranscriptStatus, WithClock(mock))
	return NewController(backend, poller, nil)
}

func analyzeAsync(ctrl *Controller) (<-chan struct{}, *error) {
	var err error
	done := make(chan struct{})
	go func() {
		defer close(done)
		err = ctrl.Analyze(context.Background())
	}()
	return done, &err
}

func TestController_MeetingScenario(t *testing.T) {
	mock := clock.NewMock()
	backend := &fakeBackend{
		transcriptID: "abc123",
		status:       &scriptedStatus{jobs: []*entities.Job{processing(), completedWith("Let's ship v2 Friday.")}},
		summary: entities.NewSummaryResult(
			"The team agreed on the v2 release date.",
			[]string{"Ship v2 Friday"},
			[]string{"Prepare release notes"},
		),
	}
	ctrl := newTestController(backend, mock)
	rec := &statusRecorder{}
	ctrl.OnChange(rec.observe)

	if err := ctrl.SelectFile(audioFile("meeting.wav")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	done, errp := analyzeAsync(ctrl)
	advanceUntil(t, mock, DefaultPollInterval, done)

	if *errp != nil {
		t.Fatalf("Analyze: %v", *errp)
	}
	st := ctrl.State()
	if st.Status != StatusCompleted || st.Err != "" {
		t.Fatalf("state = %+v", st)
	}
	if st.Job.ID != "abc123" || st.Transcript != "Let's ship v2 Friday." {
		t.Fatalf("job = %+v transcript = %q", st.Job, st.Transcript)
	}
	if st.Summary.Summary() == "" ||
		!reflect.DeepEqual(st.Summary.KeyDecisions(), []string{"Ship v2 Friday"}) ||
		!reflect.DeepEqual(st.Summary.ActionItems(), []string{"Prepare release notes"}) {
		t.Fatalf("summary = %+v", st.Summary)
	}

	wantStatuses := []Status{StatusIdle, StatusUploading, StatusTranscribing, StatusTranscribing, StatusSummarizing, StatusCompleted}
	if got := rec.snapshot(); !reflect.DeepEqual(got, wantStatuses) {
		t.Fatalf("statuses = %v, want %v", got, wantStatuses)
	}
	wantCalls := []string{"transcribe", "status", "status", "summarize"}
	if got := backend.callLog(); !reflect.DeepEqual(got, wantCalls) {
		t.Fatalf("calls = %v, want %v", got, wantCalls)
	}
	if backend.uploaded != "meeting.wav:RIFF....WAVE" || backend.summarized != "Let's ship v2 Friday." {
		t.Fatalf("uploaded = %q summarized = %q", backend.uploaded, backend.summarized)
	}
}

func TestController_EmptyTranscriptSkipsSummarization(t *testing.T) {
	backend := &fakeBackend{
		transcriptID: "abc123",
		status:       &scriptedStatus{jobs: []*entities.Job{completedWith("")}},
	}
	ctrl := newTestController(backend, clock.NewMock())
	ctrl.SelectFile(audioFile("silence.wav"))

	if err := ctrl.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	st := ctrl.State()
	if st.Status != StatusCompleted || !st.NoSpeech() {
		t.Fatalf("state = %+v", st)
	}
	for _, call := range backend.callLog() {
		if call == "summarize" {
			t.Fatal("summarization invoked for empty transcript")
		}
	}
}

func TestController_StageFailures(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		wantErr error
		wantMsg string
	}{
		{
			name:    "upload",
			backend: &fakeBackend{transcribeErr: errors.New("Failed to start transcription.")},
			wantMsg: "Transcription request failed: Failed to start transcription.",
		},
		{
			name: "poll transport",
			backend: &fakeBackend{
				transcriptID: "abc123",
				status:       &scriptedStatus{err: errors.New("Failed to fetch transcript.")},
			},
			wantMsg: "An error occurred while polling for transcript: Failed to fetch transcript.",
		},
		{
			name: "provider job failure",
			backend: &fakeBackend{
				transcriptID: "abc123",
				status:       &scriptedStatus{jobs: []*entities.Job{{Status: entities.JobStatusFailed, Error: "bad audio"}}},
			},
			wantErr: entities.ErrTranscriptionFailed,
			wantMsg: "Transcription failed. The audio format might be unsupported or the file could be corrupt.",
		},
		{
			name: "summarize",
			backend: &fakeBackend{
				transcriptID: "abc123",
				status:       &scriptedStatus{jobs: []*entities.Job{completedWith("hello")}},
				summarizeErr: errors.New("Failed to generate summary."),
			},
			wantMsg: "Summarization failed: Failed to generate summary.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newTestController(tt.backend, clock.NewMock())
			ctrl.SelectFile(audioFile("meeting.wav"))

			err := ctrl.Analyze(context.Background())
			if err == nil {
				t.Fatal("Analyze succeeded")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			st := ctrl.State()
			if st.Status != StatusError || st.Err != tt.wantMsg {
				t.Fatalf("state = %+v", st)
			}
		})
	}
}

func TestController_NewFileStopsPolling(t *testing.T) {
	mock := clock.NewMock()
	backend := &fakeBackend{
		transcriptID: "abc123",
		status:       &scriptedStatus{jobs: []*entities.Job{processing()}},
	}
	ctrl := newTestController(backend, mock)

	transcribing := make(chan struct{}, 1)
	var (
		mu       sync.Mutex
		observed int
	)
	ctrl.OnChange(func(s State) {
		mu.Lock()
		observed++
		mu.Unlock()
		if s.Status == StatusTranscribing {
			select {
			case transcribing <- struct{}{}:
			default:
			}
		}
	})

	ctrl.SelectFile(audioFile("first.wav"))
	done, errp := analyzeAsync(ctrl)

	select {
	case <-transcribing:
	case <-time.After(5 * time.Second):
		t.Fatal("run never reached transcribing")
	}

	if err := ctrl.Analyze(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("concurrent Analyze err = %v", err)
	}

	if err := ctrl.SelectFile(audioFile("second.wav")); err != nil {
		t.Fatalf("SelectFile: %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("superseded run did not stop")
	}
	if !errors.Is(*errp, ErrStaleEvent) {
		t.Fatalf("superseded Analyze err = %v", *errp)
	}

	mu.Lock()
	observedAfterSelect := observed
	mu.Unlock()
	polls := backend.status.count()

	mock.Add(10 * DefaultPollInterval)

	if got := backend.status.count(); got != polls {
		t.Fatalf("polls after new file = %d, want %d", got, polls)
	}
	mu.Lock()
	defer mu.Unlock()
	if observed != observedAfterSelect {
		t.Fatalf("state mutated by superseded run: %d notifications, want %d", observed, observedAfterSelect)
	}
	st := ctrl.State()
	if st.Status != StatusIdle || st.FileName != "second.wav" || st.Job != nil {
		t.Fatalf("state = %+v", st)
	}
}

func TestController_AnalyzeWithoutFile(t *testing.T) {
	ctrl := newTestController(&fakeBackend{}, clock.NewMock())
	if err := ctrl.Analyze(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v", err)
	}
	if ctrl.State().Status != StatusIdle {
		t.Fatalf("status = %s", ctrl.State().Status)
	}
}

func TestController_ResetAfterErrorAllowsRetry(t *testing.T) {
	backend := &fakeBackend{transcribeErr: errors.New("offline")}
	ctrl := newTestController(backend, clock.NewMock())
	ctrl.SelectFile(audioFile("meeting.wav"))

	if err := ctrl.Analyze(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if err := ctrl.Reset(false); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	st := ctrl.State()
	if st.Status != StatusIdle || st.FileName != "meeting.wav" || st.Err != "" {
		t.Fatalf("state = %+v", st)
	}

	backend.transcribeErr = nil
	backend.transcriptID = "abc123"
	backend.status = &scriptedStatus{jobs: []*entities.Job{completedWith("")}}
	if err := ctrl.Analyze(context.Background()); err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if ctrl.State().Status != StatusCompleted {
		t.Fatalf("status = %s", ctrl.State().Status)
	}

	if err := ctrl.Reset(true); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := ctrl.Analyze(context.Background()); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Analyze after clearing file: %v", err)
	}
}
