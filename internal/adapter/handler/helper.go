package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto/common"
)

// getRequestID reads the request id set by the RequestID middleware
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// HandleSuccess writes data as the JSON body and logs the response
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, data)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Stringer("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		return c.JSON(appErr.HTTPCode, common.ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Info:    info,
			Details: appErr.Details,
		})
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Error: "Internal server error",
		Code:  errors.ErrorCode_INTERNAL,
		Info:  err.Error(),
	})
}
