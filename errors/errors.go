package errors

import (
	"fmt"
	"net/http"
)

// AppError is the error type rendered by the HTTP layer
type AppError struct {
	Raw      error
	HTTPCode int
	Code     ErrorCode
	Message  string
	Details  map[string]string
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// Input Errors
func ErrMissingAudio() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_AUDIO,
		Message:  "No audio file uploaded.",
	}
}

func ErrMissingTranscript() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_MISSING_TRANSCRIPT,
		Message:  "Transcript text is required.",
	}
}

// AI Pipeline Errors
func ErrAITranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_AI_TRANSCRIPTION_FAILED,
		Message:  "Failed to start transcription.",
	}
}

func ErrAITranscriptFetchFailed(transcriptID string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_AI_TRANSCRIPT_FETCH,
		Message:  "Failed to fetch transcript.",
	}.WithDetail("transcript_id", transcriptID)
}

func ErrAISummaryFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_AI_SUMMARY_FAILED,
		Message:  "Failed to generate summary.",
	}
}

func ErrAIMalformedResponse(service string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_AI_MALFORMED_RESPONSE,
		Message:  "Failed to generate summary.",
	}.WithDetail("service", service)
}
