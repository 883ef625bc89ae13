package mcp

import (
	"errors"
	"fmt"

	"github.com/wodplus/wodplus/internal/domain/activity"
	"github.com/wodplus/wodplus/internal/domain/recurrence"
	"github.com/wodplus/wodplus/internal/domain/settings"
	"github.com/wodplus/wodplus/internal/ingest"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, activity.ErrActivityNotFound):
		return &APIError{Code: "ACTIVITY_NOT_FOUND", Message: "activity not found", RecoveryHint: "Activity ids change on every ingest; list activities again"}
	case errors.Is(err, activity.ErrNotSelected):
		return &APIError{Code: "NOT_SELECTED", Message: "activity is not selected", RecoveryHint: "Call select_activity first"}
	case errors.Is(err, recurrence.ErrConfigNotFound):
		return &APIError{Code: "RECURRENCE_NOT_FOUND", Message: "recurrence config not found", RecoveryHint: "Call list_recurrences"}
	case errors.Is(err, recurrence.ErrBuiltInProtected):
		return &APIError{Code: "BUILT_IN_PROTECTED", Message: "built-in recurrence cannot be renamed or deleted", RecoveryHint: "Disable it with toggle_recurrence instead"}
	case errors.Is(err, recurrence.ErrDuplicateName):
		return &APIError{Code: "DUPLICATE_NAME", Message: "recurrence name already in use"}
	case errors.Is(err, ingest.ErrFetchFailed):
		return &APIError{Code: "FETCH_FAILED", Message: err.Error(), RecoveryHint: "Check the configured scraper command or use ingest_scrape"}
	case errors.Is(err, ingest.ErrIngestFailed):
		return &APIError{Code: "INGEST_FAILED", Message: err.Error()}
	case errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, recurrence.ErrInvalidInput),
		errors.Is(err, settings.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

// toolError converts err for a tool result, keeping unknown errors as is.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func invalidInput(format string, args ...any) error {
	return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf(format, args...)}
}
