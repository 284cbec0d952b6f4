package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// AssemblyAIClient wraps the official AssemblyAI SDK client
type AssemblyAIClient struct {
	client *aai.Client
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// httpClient may be nil to use the SDK default.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, httpClient *http.Client) *AssemblyAIClient {
	opts := []aai.ClientOption{aai.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, aai.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, aai.WithHTTPClient(httpClient))
	}
	return &AssemblyAIClient{client: aai.NewClientWithOptions(opts...)}
}

// UploadAudio streams audio to AssemblyAI's storage and returns the upload URL
func (c *AssemblyAIClient) UploadAudio(ctx context.Context, audio io.Reader) (string, error) {
	uploadURL, err := c.client.Upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	return uploadURL, nil
}

// SubmitTranscript queues a transcription job for an uploaded file and
// returns without waiting for it to finish.
func (c *AssemblyAIClient) SubmitTranscript(ctx context.Context, audioURL string) (aai.Transcript, error) {
	transcript, err := c.client.Transcripts.SubmitFromURL(ctx, audioURL, nil)
	if err != nil {
		return aai.Transcript{}, fmt.Errorf("submit transcript: %w", err)
	}
	return transcript, nil
}

// GetTranscript fetches the current state of a transcription job
func (c *AssemblyAIClient) GetTranscript(ctx context.Context, transcriptID string) (aai.Transcript, error) {
	transcript, err := c.client.Transcripts.Get(ctx, transcriptID)
	if err != nil {
		return aai.Transcript{}, fmt.Errorf("get transcript %s: %w", transcriptID, err)
	}
	return transcript, nil
}
