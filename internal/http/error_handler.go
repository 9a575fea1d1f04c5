package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "legal-docs-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler returns the central error handler for the server.
// It maps sentinel errors to HTTP status codes, sanitizes internal
// errors, and logs every error with its request id.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"

		// Check for Echo HTTP errors first
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		} else {
			// Map sentinel errors to HTTP status codes
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				code = http.StatusNotFound
				message = "Resource not found"
			case errors.Is(err, apperrors.ErrUnauthorized):
				code = http.StatusUnauthorized
				message = "Unauthorized"
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				code = http.StatusUnauthorized
				message = "Invalid credentials"
			case errors.Is(err, apperrors.ErrForbidden):
				code = http.StatusForbidden
				message = "Forbidden"
			case errors.Is(err, apperrors.ErrBadRequest):
				code = http.StatusBadRequest
				message = "Bad request"
			case errors.Is(err, apperrors.ErrInvalidInput):
				code = http.StatusBadRequest
				message = "Invalid input"
			case errors.Is(err, apperrors.ErrValidation):
				code = http.StatusBadRequest
				message = "Validation error"
			case errors.Is(err, apperrors.ErrFileTooLarge):
				code = http.StatusBadRequest
				message = "File too large"
			case errors.Is(err, apperrors.ErrUnsupportedFileType):
				code = http.StatusBadRequest
				message = "Unsupported file type"
			case errors.Is(err, apperrors.ErrInvalidSignature):
				code = http.StatusBadRequest
				message = "Invalid signature"
			case errors.Is(err, apperrors.ErrDocumentArchived):
				code = http.StatusBadRequest
				message = "Document archived"
			case errors.Is(err, apperrors.ErrAnalysisInProgress):
				code = http.StatusConflict
				message = "Analysis already in progress"
			case errors.Is(err, apperrors.ErrConflict):
				code = http.StatusConflict
				message = "Resource already exists"
			case errors.Is(err, apperrors.ErrEmailExists):
				code = http.StatusConflict
				message = "Email already exists"
			}

			// Check for custom AppError type
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				// Use the message from AppError if it's a client error
				if code < 500 {
					message = appErr.Message
				}
			}
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = "unknown"
		}

		if code >= 500 {
			log.Error("internal server error",
				zap.String("request_id", requestID),
				zap.Int("status", code),
				zap.Error(err))
			// Don't expose internal errors to clients
			message = "Internal server error"
		} else {
			log.Warn("client error",
				zap.String("request_id", requestID),
				zap.Int("status", code),
				zap.Error(err))
		}

		// Send JSON error response
		if err := c.JSON(code, map[string]interface{}{
			"error":      message,
			"request_id": requestID,
		}); err != nil {
			log.Error("failed to write error response",
				zap.String("request_id", requestID), zap.Error(err))
		}
	}
}
