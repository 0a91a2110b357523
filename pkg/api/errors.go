package api

import "fmt"

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation_error"
	ErrorTypeAuthentication ErrorType = "authentication_error"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeConfiguration  ErrorType = "configuration_error"
	ErrorTypeStorage        ErrorType = "storage_error"
	ErrorTypeUpstream       ErrorType = "upstream_error"
)

// Error codes used to refine the HTTP status for upstream failures.
const (
	CodeUpstreamAuth        = "upstream_auth"
	CodeUpstreamBadRequest  = "upstream_bad_request"
	CodeUpstreamUnavailable = "upstream_unavailable"
)

// APIError represents a structured API error with type, code, param, and message.
type APIError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Param   string    `json:"param,omitempty"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Type, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level
// error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewValidationError creates an APIError for invalid request parameters.
func NewValidationError(param, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeValidation,
		Param:   param,
		Message: message,
	}
}

// NewAuthenticationError creates an APIError for authentication failures.
func NewAuthenticationError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeAuthentication,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
// Foreign-owned resources use the same error as missing ones.
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewConflictError creates an APIError for uniqueness violations.
func NewConflictError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewConfigurationError creates an APIError for missing or invalid
// server-side configuration.
func NewConfigurationError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeConfiguration,
		Message: message,
	}
}

// NewStorageError creates an APIError for storage-engine failures.
func NewStorageError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeStorage,
		Message: message,
	}
}

// NewUpstreamError creates an APIError for third-party API failures.
// The code refines the HTTP status mapping (see transport.HTTPStatusFromError).
func NewUpstreamError(code, message string) *APIError {
	return &APIError{
		Type:    ErrorTypeUpstream,
		Code:    code,
		Message: message,
	}
}
