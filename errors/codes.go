package errors

// ErrorCode is the machine-readable code attached to every API error body.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK         ErrorCode = 200
	ErrorCode_INTERNAL        ErrorCode = 1000
	ErrorCode_NOT_FOUND       ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD ErrorCode = 1003

	// Input errors
	ErrorCode_MISSING_AUDIO      ErrorCode = 2001
	ErrorCode_MISSING_TRANSCRIPT ErrorCode = 2002

	// AI pipeline errors
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 3001
	ErrorCode_AI_TRANSCRIPT_FETCH     ErrorCode = 3002
	ErrorCode_AI_SUMMARY_FAILED       ErrorCode = 3003
	ErrorCode_AI_MALFORMED_RESPONSE   ErrorCode = 3004
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                 "HTTP_OK",
	ErrorCode_INTERNAL:                "INTERNAL",
	ErrorCode_NOT_FOUND:               "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:         "INVALID_PAYLOAD",
	ErrorCode_MISSING_AUDIO:           "MISSING_AUDIO",
	ErrorCode_MISSING_TRANSCRIPT:      "MISSING_TRANSCRIPT",
	ErrorCode_AI_TRANSCRIPTION_FAILED: "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_TRANSCRIPT_FETCH:     "AI_TRANSCRIPT_FETCH",
	ErrorCode_AI_SUMMARY_FAILED:       "AI_SUMMARY_FAILED",
	ErrorCode_AI_MALFORMED_RESPONSE:   "AI_MALFORMED_RESPONSE",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
