package utils

import (
	"errors"
	"net/http"
)

// Stable machine-readable error codes returned to clients.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is a categorized failure carrying a stable code and the HTTP
// status it maps to. Services construct these; controllers translate them
// once at the edge.
type AppError struct {
	Code    string
	Message string
	Status  int
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Status: http.StatusBadRequest}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message, Status: http.StatusConflict}
}

// AsAppError unwraps err into an *AppError when it is one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFound AppError.
func IsNotFound(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == CodeNotFound
}

// IsValidation reports whether err is a Validation AppError.
func IsValidation(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == CodeValidation
}
