package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NewValidationError("bad"), CodeValidation, http.StatusBadRequest},
		{NewUnauthorizedError("who"), CodeUnauthorized, http.StatusUnauthorized},
		{NewForbiddenError("no"), CodeForbidden, http.StatusForbidden},
		{NewNotFoundError("gone"), CodeNotFound, http.StatusNotFound},
		{NewConflictError("dup"), CodeConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
		}
		if tt.err.Status != tt.status {
			t.Errorf("%s: expected status %d, got %d", tt.code, tt.status, tt.err.Status)
		}
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("recording sale: %w", NewNotFoundError("prospect not found"))

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("wrapped AppError must still be recognized")
	}
	if appErr.Code != CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound must see through wrapping")
	}
}

func TestAsAppError_PlainError(t *testing.T) {
	if _, ok := AsAppError(errors.New("disk on fire")); ok {
		t.Error("plain errors must not be categorized")
	}
}
