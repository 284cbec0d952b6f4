package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type KeyContext string

var (
	keyRunID     KeyContext = "run_id"
	keyFileName  KeyContext = "file_name"
	keyStage     KeyContext = "stage"
	keyJobID     KeyContext = "transcript_id"
	keyStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for one workflow run
type RunMetadata struct {
	RunID     uuid.UUID
	FileName  string
	Stage     string
	JobID     string
	StartTime time.Time
}

// RunBegin derives a cancellable context carrying run metadata.
// No deadline is applied; upstream calls rely on transport defaults.
func RunBegin(parentCtx context.Context, runID uuid.UUID, fileName string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parentCtx)

	ctx = context.WithValue(ctx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyFileName, fileName)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// WithStage records the stage currently executing
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, keyStage, stage)
}

// WithJobID records the provider-issued transcript id
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, keyJobID, jobID)
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	runID, ok := ctx.Value(keyRunID).(uuid.UUID)
	return runID, ok
}

// GetStage extracts the current stage from context
func GetStage(ctx context.Context) string {
	stage, _ := ctx.Value(keyStage).(string)
	return stage
}

// GetJobID extracts the transcript id from context
func GetJobID(ctx context.Context) string {
	jobID, _ := ctx.Value(keyJobID).(string)
	return jobID
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := GetRunID(ctx)
	fileName, _ := ctx.Value(keyFileName).(string)
	startTime, _ := ctx.Value(keyStartTime).(time.Time)

	return &RunMetadata{
		RunID:     runID,
		FileName:  fileName,
		Stage:     GetStage(ctx),
		JobID:     GetJobID(ctx),
		StartTime: startTime,
	}
}

// Fields renders the run metadata as zap fields
func Fields(ctx context.Context) []zap.Field {
	md := GetRunMetadata(ctx)
	fields := []zap.Field{
		zap.String("run_id", md.RunID.String()),
		zap.String("file_name", md.FileName),
	}
	if md.Stage != "" {
		fields = append(fields, zap.String("stage", md.Stage))
	}
	if md.JobID != "" {
		fields = append(fields, zap.String("transcript_id", md.JobID))
	}
	if !md.StartTime.IsZero() {
		fields = append(fields, zap.Duration("elapsed", time.Since(md.StartTime)))
	}
	return fields
}
