// Package api provides the HTTP boundary of the lookup service.
package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-meddra-lookup/config"
)

// Export formats accepted by the export endpoint.
const (
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// SearchParams are the query string parameters of the search endpoints.
type SearchParams struct {
	Query           string
	Limit           int
	IncludeInactive bool
	AI              bool
}

// ParseSearchParams reads q, limit, inactive and ai from the request.
// q is required after trimming. A missing, malformed or non-positive limit
// falls back to defaultLimit.
func ParseSearchParams(c *gin.Context, defaultLimit int) (SearchParams, *ValidationResult) {
	result := &ValidationResult{Valid: true}
	params := SearchParams{
		Query:           strings.TrimSpace(c.Query("q")),
		Limit:           ParseLimit(c.Query("limit"), defaultLimit),
		IncludeInactive: ParseFlag(c.Query("inactive")),
		AI:              ParseFlag(c.Query("ai")),
	}
	if params.Query == "" {
		result.AddError("q", "q 파라미터가 필요합니다.")
	}
	return params, result
}

// ParseLimit parses a positive limit, returning fallback for anything else.
// Limits above config.MaxLimit, including ones too large for an int, are
// clamped to it.
func ParseLimit(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(raw), "-") {
		return config.MaxLimit
	}
	if err != nil || value < 1 {
		return fallback
	}
	return min(value, config.MaxLimit)
}

// ParseFlag reports whether a boolean query parameter is set ("1" or "true").
func ParseFlag(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "1" || strings.EqualFold(raw, "true")
}

// ValidateExportFormat checks the format parameter of the export endpoint.
func ValidateExportFormat(format string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	switch format {
	case FormatXLSX, FormatJSON:
	default:
		result.AddError("format", "format must be 'xlsx' or 'json'")
	}
	return result
}
