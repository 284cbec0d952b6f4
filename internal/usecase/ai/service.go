package ai

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-summarizer/pkg/ai"
)

// Service defines the relay operations exposed over HTTP
type Service interface {
	StartTranscription(ctx context.Context, audio io.Reader) (string, error)
	GetTranscript(ctx context.Context, transcriptID string) (aai.Transcript, *entities.Job, error)
	Summarize(ctx context.Context, transcript string) (*entities.SummaryResult, error)
}

// Transcriber is the subset of the AssemblyAI client the service needs
type Transcriber interface {
	UploadAudio(ctx context.Context, audio io.Reader) (string, error)
	SubmitTranscript(ctx context.Context, audioURL string) (aai.Transcript, error)
	GetTranscript(ctx context.Context, transcriptID string) (aai.Transcript, error)
}

type aiService struct {
	transcriber Transcriber
	summarizer  pkgai.Summarizer
	parser      *Parser
	logger      *zap.Logger
}

// NewAIService constructs a new AI service
func NewAIService(transcriber Transcriber, summarizer pkgai.Summarizer, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &aiService{
		transcriber: transcriber,
		summarizer:  summarizer,
		parser:      NewParser(),
		logger:      logger,
	}
}

// StartTranscription uploads the audio to the provider's storage and submits
// it for transcription. Upload strictly precedes submission.
func (s *aiService) StartTranscription(ctx context.Context, audio io.Reader) (string, error) {
	if audio == nil {
		return "", entities.ErrMissingAudio
	}

	// Sniff the content type without consuming the stream
	br := bufio.NewReaderSize(audio, 3072)
	head, err := br.Peek(3072)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: read audio: %v", entities.ErrUpstreamTransport, err)
	}
	if len(head) == 0 {
		return "", entities.ErrMissingAudio
	}
	s.logger.Info("uploading audio to AssemblyAI",
		zap.String("content_type", mimetype.Detect(head).String()),
	)

	uploadURL, err := s.transcriber.UploadAudio(ctx, br)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrUpstreamTransport, err)
	}
	if uploadURL == "" {
		return "", fmt.Errorf("%w: upload returned no url", entities.ErrUpstreamShape)
	}

	transcript, err := s.transcriber.SubmitTranscript(ctx, uploadURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entities.ErrUpstreamTransport, err)
	}
	if transcript.ID == nil || *transcript.ID == "" {
		return "", fmt.Errorf("%w: submitted transcript has no id", entities.ErrUpstreamShape)
	}

	s.logger.Info("transcription job submitted",
		zap.String("transcript_id", *transcript.ID),
		zap.String("status", string(transcript.Status)),
	)
	return *transcript.ID, nil
}

// GetTranscript returns the provider's job object untouched together with the
// validated Job view of it.
func (s *aiService) GetTranscript(ctx context.Context, transcriptID string) (aai.Transcript, *entities.Job, error) {
	if strings.TrimSpace(transcriptID) == "" {
		return aai.Transcript{}, nil, fmt.Errorf("%w: transcript id is required", entities.ErrUpstreamShape)
	}

	transcript, err := s.transcriber.GetTranscript(ctx, transcriptID)
	if err != nil {
		return aai.Transcript{}, nil, fmt.Errorf("%w: %v", entities.ErrUpstreamTransport, err)
	}

	id := transcriptID
	if transcript.ID != nil {
		id = *transcript.ID
	}
	job, err := s.parser.ParseJob(id, string(transcript.Status), transcript.Text, transcript.Error)
	if err != nil {
		return aai.Transcript{}, nil, err
	}

	s.logger.Debug("transcript status fetched",
		zap.String("transcript_id", id),
		zap.String("status", string(job.Status)),
	)
	return transcript, job, nil
}

// Summarize asks the generative provider for a structured summary. Empty
// input is rejected before any network call.
func (s *aiService) Summarize(ctx context.Context, transcript string) (*entities.SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, entities.ErrEmptyTranscript
	}

	s.logger.Info("generating summary",
		zap.String("provider", s.summarizer.Name()),
		zap.Int("text_length", len(transcript)),
	)

	raw, err := s.summarizer.GenerateSummary(ctx, transcript)
	if err != nil {
		if errors.Is(err, pkgai.ErrEmptyResponse) {
			return nil, fmt.Errorf("%w: %v", entities.ErrUpstreamShape, err)
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrUpstreamTransport, err)
	}

	result, err := s.parser.ParseSummaryResponse(raw)
	if err != nil {
		s.logger.Error("failed to parse summary response",
			zap.String("provider", s.summarizer.Name()),
			zap.String("raw_response", raw[:min(500, len(raw))]),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}
