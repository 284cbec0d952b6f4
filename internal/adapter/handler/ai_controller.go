package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	aiuse "github.com/johnquangdev/meeting-summarizer/internal/usecase/ai"
)

// audioFormField is the multipart field carrying the uploaded recording
const audioFormField = "audio"

// AIController handles the transcription and summarization relay endpoints
type AIController struct {
	svc    aiuse.Service
	logger *zap.Logger
}

// NewAIController creates a new AI controller
func NewAIController(svc aiuse.Service, logger *zap.Logger) *AIController {
	return &AIController{svc: svc, logger: logger}
}

// Transcribe uploads an audio file and starts transcription
// @Summary      Start transcription
// @Description  Uploads the audio file to AssemblyAI and submits it for transcription
// @Tags         AI
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio  formData  file                     true  "Audio file"
// @Success      200    {object}  dto.TranscribeResponse   "Transcription started"
// @Failure      400    {object}  common.ErrorResponse     "No audio file uploaded"
// @Failure      500    {object}  common.ErrorResponse     "Failed to start transcription"
// @Router       /api/transcribe [post]
func (ac *AIController) Transcribe(c echo.Context) error {
	fh, err := c.FormFile(audioFormField)
	if err != nil {
		return HandleError(ac.logger, c, errors.ErrMissingAudio())
	}
	file, err := fh.Open()
	if err != nil {
		return HandleError(ac.logger, c, errors.ErrInternal(err))
	}
	defer file.Close()

	if ac.logger != nil {
		ac.logger.Info("received audio upload",
			zap.String("request_id", getRequestID(c)),
			zap.String("filename", fh.Filename),
			zap.Int64("size", fh.Size),
		)
	}

	transcriptID, err := ac.svc.StartTranscription(c.Request().Context(), file)
	if err != nil {
		if stdErrors.Is(err, entities.ErrMissingAudio) {
			return HandleError(ac.logger, c, errors.ErrMissingAudio())
		}
		return HandleError(ac.logger, c, errors.ErrAITranscriptionFailed(err))
	}
	return HandleSuccess(ac.logger, c, dto.TranscribeResponse{TranscriptID: transcriptID})
}

// GetTranscript relays the provider's transcript job object
// @Summary      Get transcript status
// @Description  Returns AssemblyAI's transcript object: status, and text once completed
// @Tags         AI
// @Produce      json
// @Param        id   path      string                  true  "Transcript ID"
// @Success      200  {object}  dto.TranscriptResponse  "Provider job object"
// @Failure      500  {object}  common.ErrorResponse    "Failed to fetch transcript"
// @Router       /api/transcript/{id} [get]
func (ac *AIController) GetTranscript(c echo.Context) error {
	transcriptID := c.Param("id")

	transcript, _, err := ac.svc.GetTranscript(c.Request().Context(), transcriptID)
	if err != nil {
		return HandleError(ac.logger, c, errors.ErrAITranscriptFetchFailed(transcriptID, err))
	}
	return HandleSuccess(ac.logger, c, transcript)
}

// Summarize generates a structured summary for a transcript
// @Summary      Summarize transcript
// @Description  Sends the transcript to the generative-language provider and returns summary, key decisions and action items
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SummarizeRequest  true  "Transcript"
// @Success      200      {object}  dto.SummaryResponse   "Structured summary"
// @Failure      400      {object}  common.ErrorResponse  "Transcript text is required"
// @Failure      500      {object}  common.ErrorResponse  "Failed to generate summary"
// @Router       /api/summarize [post]
func (ac *AIController) Summarize(c echo.Context) error {
	var req dto.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ac.logger, c, errors.ErrMissingTranscript())
	}

	result, err := ac.svc.Summarize(c.Request().Context(), req.Transcript)
	switch {
	case err == nil:
		return HandleSuccess(ac.logger, c, dto.NewSummaryResponse(result))
	case stdErrors.Is(err, entities.ErrEmptyTranscript):
		return HandleError(ac.logger, c, errors.ErrMissingTranscript())
	case stdErrors.Is(err, entities.ErrUpstreamShape):
		return HandleError(ac.logger, c, errors.ErrAIMalformedResponse("summarizer", err))
	default:
		return HandleError(ac.logger, c, errors.ErrAISummaryFailed(err))
	}
}

