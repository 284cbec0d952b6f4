package entities

import "errors"

// Domain errors
var (
	// Client input errors (HTTP 400)
	ErrMissingAudio    = errors.New("no audio file uploaded")
	ErrEmptyTranscript = errors.New("transcript text is required")

	// Upstream errors (HTTP 500)
	ErrUpstreamTransport = errors.New("upstream request failed")
	ErrUpstreamShape     = errors.New("upstream response has unexpected shape")

	// Provider-reported job failure, surfaced through polling
	ErrTranscriptionFailed = errors.New("transcription failed")
)
