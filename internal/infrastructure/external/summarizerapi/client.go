package summarizerapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

const (
	audioFormField = "audio"
	sniffLen       = 3072
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// APIError is a non-2xx reply from the relay server
type APIError struct {
	StatusCode int
	Message    string
	Info       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client talks to the meeting summarizer HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the server at baseURL.
// httpClient may be nil to use http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Transcribe streams the recording as multipart field "audio" and returns
// the transcript id.
func (c *Client) Transcribe(ctx context.Context, fileName string, audio io.Reader) (string, error) {
	br := bufio.NewReaderSize(audio, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read audio: %w", err)
	}
	mtype := mimetype.Detect(head)
	c.logger.Debug("uploading audio",
		zap.String("file_name", fileName),
		zap.String("mime", mtype.String()),
	)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			audioFormField, quoteEscaper.Replace(fileName)))
		h.Set("Content-Type", mtype.String())

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, br)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcribe", pr)
	if err != nil {
		pr.Close()
		return "", fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp dto.TranscribeResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.TranscriptID == "" {
		return "", fmt.Errorf("%w: missing transcriptId", entities.ErrUpstreamShape)
	}
	return resp.TranscriptID, nil
}

// transcriptWire is the subset of the provider job object read by the client
type transcriptWire struct {
	ID     *string `json:"id"`
	Status *string `json:"status"`
	Text   *string `json:"text"`
	Error  *string `json:"error"`
}

// TranscriptStatus fetches the job state for transcriptID
func (c *Client) TranscriptStatus(ctx context.Context, transcriptID string) (*entities.Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/transcript/"+url.PathEscape(transcriptID), nil)
	if err != nil {
		return nil, fmt.Errorf("build transcript request: %w", err)
	}

	var wire transcriptWire
	if err := c.do(req, &wire); err != nil {
		return nil, err
	}
	if wire.Status == nil {
		return nil, fmt.Errorf("%w: missing status", entities.ErrUpstreamShape)
	}
	status, err := entities.ParseJobStatus(*wire.Status)
	if err != nil {
		return nil, err
	}

	job := entities.NewJob(transcriptID)
	job.Status = status
	if status == entities.JobStatusCompleted {
		text := ""
		if wire.Text != nil {
			text = *wire.Text
		}
		job.ResultText = &text
	}
	if wire.Error != nil {
		job.Error = *wire.Error
	}
	return job, nil
}

// Summarize requests a structured summary of transcript
func (c *Client) Summarize(ctx context.Context, transcript string) (*entities.SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, entities.ErrEmptyTranscript
	}

	body, err := json.Marshal(dto.SummarizeRequest{Transcript: transcript})
	if err != nil {
		return nil, fmt.Errorf("encode summarize request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/summarize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	return entities.ParseSummaryResult(raw)
}

// do sends req and decodes a 2xx JSON body into out. Other statuses are
// returned as *APIError carrying the server's message.
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrUpstreamTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", entities.ErrUpstreamTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body common.ErrorResponse
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error
			apiErr.Info = body.Info
		}
		c.logger.Debug("server error",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("info", apiErr.Info),
		)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrUpstreamShape, err)
	}
	return nil
}
