package jobcontext

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRunMetadata(t *testing.T) {
	runID := uuid.New()
	ctx, cancel := RunBegin(context.Background(), runID, "meeting.wav")
	defer cancel()

	ctx = WithJobID(WithStage(ctx, "poll"), "abc123")

	md := GetRunMetadata(ctx)
	if md.RunID != runID || md.FileName != "meeting.wav" || md.Stage != "poll" || md.JobID != "abc123" {
		t.Fatalf("metadata = %+v", md)
	}
	if md.StartTime.IsZero() {
		t.Fatal("start time not recorded")
	}
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("run context must not carry a deadline")
	}
	if got := len(Fields(ctx)); got != 5 {
		t.Fatalf("fields = %d, want 5", got)
	}
}

func TestRunBegin_Cancel(t *testing.T) {
	ctx, cancel := RunBegin(context.Background(), uuid.New(), "a.mp3")
	cancel()
	if ctx.Err() == nil {
		t.Fatal("context not cancelled")
	}
}

func TestGetRunMetadata_Empty(t *testing.T) {
	md := GetRunMetadata(context.Background())
	if md.RunID != uuid.Nil || md.Stage != "" || md.JobID != "" {
		t.Fatalf("metadata = %+v", md)
	}
}
