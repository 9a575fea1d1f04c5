package handler

import (
	"errors"
	"net/http"

	apperrors "legal-docs-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

// MapToPublicError maps internal errors to public-facing HTTP status codes and messages
// This prevents information disclosure by providing consistent, generic error messages
func MapToPublicError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrAnalysisInProgress):
		return http.StatusConflict, "analysis already in progress"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "resource conflict"
	case errors.Is(err, apperrors.ErrFileTooLarge),
		errors.Is(err, apperrors.ErrUnsupportedFileType),
		errors.Is(err, apperrors.ErrInvalidSignature),
		errors.Is(err, apperrors.ErrDocumentArchived),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "invalid input"
	default:
		// Never expose internal errors to clients
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondAppError returns the AppError message for client errors and a
// generic body otherwise; handlers lean on the central error handler by
// returning err directly, this is for paths that already consumed the
// response.
func respondAppError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		msg = appErr.Message
	}
	return respondError(c, status, msg)
}
