package errors

import (
	"encoding/json"
	"strings"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest        ErrorCode = "bad_request"
	ErrCodeNotFound          ErrorCode = "not_found"
	ErrCodeValidationFailed  ErrorCode = "validation_failed"
	ErrCodeUnauthorized      ErrorCode = "unauthorized"
	ErrCodeForbidden         ErrorCode = "forbidden"
	ErrCodeSignatureMismatch ErrorCode = "signature_mismatch"
	ErrCodeOwnershipMismatch ErrorCode = "ownership_mismatch"
	ErrCodeNotOwner          ErrorCode = "not_owner"
	ErrCodeDuplicateRecord   ErrorCode = "duplicate_record"
	ErrCodePayloadTooLarge   ErrorCode = "payload_too_large"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeDatabaseError ErrorCode = "database_error"
	ErrCodeServiceError  ErrorCode = "service_error"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewForbiddenError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// NewSignatureMismatchError marks a failed challenge verification: the
// recovered signing address did not match the claimed wallet address
func NewSignatureMismatchError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeSignatureMismatch,
		Message: "Signature verification failed",
		Details: strings.Join(details, ", "),
	}
}

// NewOwnershipMismatchError marks a ledger-backed ownership check failure
func NewOwnershipMismatchError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeOwnershipMismatch,
		Message: "Ledger owner does not match caller",
		Details: strings.Join(details, ", "),
	}
}

// NewNotOwnerError marks a cache-backed ownership check failure
func NewNotOwnerError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotOwner,
		Message: "Caller is not the current owner",
		Details: strings.Join(details, ", "),
	}
}

// NewDuplicateRecordError marks a unique-key collision
func NewDuplicateRecordError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeDuplicateRecord,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// NewPayloadTooLargeError marks an upload over the configured size cap
func NewPayloadTooLargeError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodePayloadTooLarge,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewDatabaseError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewServiceError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeServiceError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}
