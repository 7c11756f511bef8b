package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrDatasetUnavailable is returned when a required reference table or
	// the dataset directory itself is missing
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrRankingFailed is returned when the external re-ranking capability fails
	ErrRankingFailed = errors.New("ranking capability failed")
)

// DatasetUnavailableError represents a missing dataset path with context
type DatasetUnavailableError struct {
	Path string
	Err  error
}

func (e *DatasetUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataset unavailable: '%s': %v", e.Path, e.Err)
	}
	return fmt.Sprintf("dataset unavailable: '%s' not found", e.Path)
}

func (e *DatasetUnavailableError) Is(target error) bool {
	return target == ErrDatasetUnavailable
}

func (e *DatasetUnavailableError) Unwrap() error {
	return e.Err
}

// NewDatasetUnavailableError creates a new DatasetUnavailableError
func NewDatasetUnavailableError(path string, cause ...error) *DatasetUnavailableError {
	err := &DatasetUnavailableError{Path: path}
	if len(cause) > 0 {
		err.Err = cause[0]
	}
	return err
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RankingError wraps a failure of the external re-ranking provider
type RankingError struct {
	Provider string
	Err      error
}

func (e *RankingError) Error() string {
	return fmt.Sprintf("%s ranking failed: %v", e.Provider, e.Err)
}

func (e *RankingError) Is(target error) bool {
	return target == ErrRankingFailed
}

func (e *RankingError) Unwrap() error {
	return e.Err
}

// NewRankingError creates a new RankingError
func NewRankingError(provider string, err error) *RankingError {
	return &RankingError{Provider: provider, Err: err}
}
