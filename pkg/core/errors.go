package core

import (
	"fmt"
	"strings"
)

// Error is the canonical error envelope returned across the tool boundary.
// Tool operations never raise faults at the controller; failures travel as
// values of this type (or as plain result strings for soft misses).
type Error struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Param     string    `json:"param,omitempty"`
	Code      string    `json:"code,omitempty"`
	Missing   []string  `json:"missing,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code: %s)", e.Type, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorType categorizes errors.
type ErrorType string

const (
	ErrInvalidRequest   ErrorType = "invalid_request_error"
	ErrNotFound         ErrorType = "not_found_error"
	ErrIncompleteRecord ErrorType = "incomplete_record_error"
	ErrPersistence      ErrorType = "persistence_error"
	ErrAPI              ErrorType = "api_error"
)

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(message string) *Error {
	return &Error{
		Type:    ErrInvalidRequest,
		Message: message,
	}
}

// NewInvalidRequestErrorWithParam creates an invalid request error with a parameter.
func NewInvalidRequestErrorWithParam(message, param string) *Error {
	return &Error{
		Type:    ErrInvalidRequest,
		Message: message,
		Param:   param,
	}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *Error {
	return &Error{
		Type:    ErrNotFound,
		Message: message,
	}
}

// NewIncompleteRecordError creates an error carrying the missing required
// fields of a record that was finalized too early.
func NewIncompleteRecordError(missing []string) *Error {
	return &Error{
		Type:    ErrIncompleteRecord,
		Message: fmt.Sprintf("cannot save: missing fields [%s]", strings.Join(missing, ", ")),
		Missing: missing,
	}
}

// NewPersistenceError wraps a failed ledger or snapshot I/O operation.
// The in-memory record stays untouched so the caller may retry.
func NewPersistenceError(op string, underlying error) *Error {
	return &Error{
		Type:    ErrPersistence,
		Message: fmt.Sprintf("%s: %v", op, underlying),
	}
}

// NewAPIError creates a generic internal error.
func NewAPIError(message string) *Error {
	return &Error{
		Type:    ErrAPI,
		Message: message,
	}
}

// IsRetryable returns true if the operation may succeed on a later attempt.
func (e *Error) IsRetryable() bool {
	switch e.Type {
	case ErrPersistence, ErrAPI:
		return true
	default:
		return false
	}
}
