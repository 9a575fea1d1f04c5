package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrConflict            = errors.New("resource already exists")
	ErrInternalServer      = errors.New("internal server error")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailExists         = errors.New("email already exists")
	ErrValidation          = errors.New("validation error")
	ErrInvalidInput        = errors.New("invalid input")
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrAnalysisInProgress  = errors.New("analysis already in progress")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrDocumentArchived    = errors.New("document archived")
	ErrStorage             = errors.New("storage failure")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Err: ErrUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func Validation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Err: ErrValidation}
}

func FileTooLarge(msg string) *AppError {
	return &AppError{Code: "FILE_TOO_LARGE", Message: msg, Err: ErrFileTooLarge}
}

func UnsupportedFileType(msg string) *AppError {
	return &AppError{Code: "UNSUPPORTED_FILE_TYPE", Message: msg, Err: ErrUnsupportedFileType}
}

func AnalysisInProgress(msg string) *AppError {
	return &AppError{Code: "ANALYSIS_IN_PROGRESS", Message: msg, Err: ErrAnalysisInProgress}
}

func InvalidSignature(msg string) *AppError {
	return &AppError{Code: "INVALID_SIGNATURE", Message: msg, Err: ErrInvalidSignature}
}

func DocumentArchived(msg string) *AppError {
	return &AppError{Code: "DOCUMENT_ARCHIVED", Message: msg, Err: ErrDocumentArchived}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid email or password", Err: ErrInvalidCredentials}
}

func Storage(msg string, err error) *AppError {
	return &AppError{Code: "STORAGE_ERROR", Message: msg, Err: fmt.Errorf("%w: %v", ErrStorage, err)}
}
