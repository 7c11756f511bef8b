package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestDatasetUnavailableError(t *testing.T) {
	err := NewDatasetUnavailableError("/data/ascii-281/llt.asc")

	expectedMsg := "dataset unavailable: '/data/ascii-281/llt.asc' not found"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	if !errors.Is(err, ErrDatasetUnavailable) {
		t.Error("Expected error to match ErrDatasetUnavailable sentinel")
	}

	if errors.Is(err, ErrInvalidInput) {
		t.Error("Error should not match ErrInvalidInput")
	}
}

func TestDatasetUnavailableErrorWithCause(t *testing.T) {
	err := NewDatasetUnavailableError("/data/ascii-281/pt.asc", fs.ErrPermission)

	if !errors.Is(err, ErrDatasetUnavailable) {
		t.Error("Expected error to match ErrDatasetUnavailable sentinel")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("Expected error to unwrap to its cause")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("q", "query is required")

	expectedMsg := "validation error for field 'q': query is required"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, err.Error())
	}

	noField := NewValidationError("", "bad input")
	if noField.Error() != "validation error: bad input" {
		t.Errorf("Unexpected message: %s", noField.Error())
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Expected error to match ErrInvalidInput sentinel")
	}
}

func TestRankingError(t *testing.T) {
	cause := fmt.Errorf("HTTP 503")
	err := NewRankingError("gemini", cause)

	if err.Error() != "gemini ranking failed: HTTP 503" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, ErrRankingFailed) {
		t.Error("Expected error to match ErrRankingFailed sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected error to unwrap to its cause")
	}
}

func TestWrappedErrors(t *testing.T) {
	base := NewDatasetUnavailableError("/missing")
	wrapped := fmt.Errorf("loading lowest level terms: %w", base)

	if !errors.Is(wrapped, ErrDatasetUnavailable) {
		t.Error("Expected wrapped error to match ErrDatasetUnavailable sentinel")
	}

	var target *DatasetUnavailableError
	if !errors.As(wrapped, &target) {
		t.Fatal("Expected errors.As to find DatasetUnavailableError")
	}
	if target.Path != "/missing" {
		t.Errorf("Expected path '/missing', got '%s'", target.Path)
	}
}
