package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/couple"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, couple.ErrCoupleNotFound):
		return &APIError{Code: "COUPLE_NOT_FOUND", Message: "couple not found", RecoveryHint: "Check the ID"}
	case errors.Is(err, couple.ErrInvalidID):
		return &APIError{Code: "INVALID_ID", Message: "invalid couple id", RecoveryHint: "Couple IDs are UUIDs"}
	case errors.Is(err, couple.ErrInvalidAnniversary):
		return &APIError{Code: "INVALID_ANNIVERSARY", Message: "stored relationship date cannot be read"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
