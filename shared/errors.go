package shared

import (
	"errors"
	"fmt"
	"net/http"
)

// Store sentinel errors. Callers match with errors.Is.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	ErrConflict           = errors.New("write conflict, re-read and retry")
)

// AppError carries the HTTP mapping for a typed failure.
type AppError struct {
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
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

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Err: err}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message, Err: err}
}

func NewUnauthorizedError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message, Err: err}
}

func NewForbiddenError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Message: message, Err: err}
}

func NewConflictError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Message: message, Err: err}
}

func NewServiceUnavailableError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusServiceUnavailable, Message: message, Err: err}
}

func NewInternalError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// GetAppError unwraps err to an AppError if one is in the chain.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromStoreError maps the persistence sentinels onto their HTTP shape.
func FromStoreError(err error) *AppError {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return NewNotFoundError(err, "Session not found")
	case errors.Is(err, ErrConflict):
		return NewConflictError(err, "Concurrent update, please retry")
	case errors.Is(err, ErrBackendUnavailable):
		return NewServiceUnavailableError(err, "Storage temporarily unavailable")
	default:
		return NewInternalError(err, "Internal Server Error")
	}
}
