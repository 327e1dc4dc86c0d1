package llm

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by clients and providers.
var (
	// ErrEmptyAPIKey indicates that an API key was required but not provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	// ErrUnknownProvider indicates a provider outside the supported set.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrNoResponseChoice indicates the provider's response had no usable choices.
	ErrNoResponseChoice = errors.New("no response choices returned")
	// ErrEmptyResponse indicates the provider returned an empty body.
	ErrEmptyResponse = errors.New("empty response from API")
)

// ErrorType classifies provider failures for standardized handling such as
// retryability decisions.
type ErrorType int

const (
	// ErrorTypeUnknown is an error of undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication is an invalid or rejected credential.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit is a provider rate limit rejection.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest is a malformed request or invalid parameters.
	ErrorTypeBadRequest
	// ErrorTypeNotFound is a missing resource such as an unknown model.
	ErrorTypeNotFound
	// ErrorTypeServerError is a failure on the provider's side.
	ErrorTypeServerError
	// ErrorTypeTimeout is an exceeded deadline.
	ErrorTypeTimeout
	// ErrorTypeCanceled is a canceled request context.
	ErrorTypeCanceled
)

// ProviderError normalizes provider-specific failures into a common shape
// carrying classification and the original error for unwrapping.
type ProviderError struct {
	Type       ErrorType
	Provider   string
	StatusCode int
	Message    string
	Wrapped    error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	base := fmt.Sprintf("%s error", e.Provider)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if s := e.typeString(); s != "" {
		base += fmt.Sprintf(" [%s]", s)
	}
	if e.Message != "" {
		base += ": " + e.Message
	}
	if e.Wrapped != nil {
		base += fmt.Sprintf(": %v", e.Wrapped)
	}
	return base
}

// Unwrap exposes the original error to errors.Is and errors.As.
func (e *ProviderError) Unwrap() error { return e.Wrapped }

// IsRetryable reports whether a request failing with this error is worth
// retrying. Rate limits and server-side failures are transient; the rest
// are not.
func (e *ProviderError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeTimeout:
		return true
	default:
		return false
	}
}

func (e *ProviderError) typeString() string {
	switch e.Type {
	case ErrorTypeAuthentication:
		return "authentication"
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeBadRequest:
		return "bad_request"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeServerError:
		return "server_error"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeCanceled:
		return "canceled"
	default:
		return ""
	}
}

// NewProviderError builds a classified ProviderError.
func NewProviderError(provider string, errType ErrorType, statusCode int, message string, wrapped error) *ProviderError {
	return &ProviderError{
		Type:       errType,
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Wrapped:    wrapped,
	}
}

// classifyHTTPError maps an HTTP status from a provider into a ProviderError.
func classifyHTTPError(provider string, statusCode int, message string, wrapped error) *ProviderError {
	errType := ErrorTypeUnknown
	switch {
	case statusCode == 401 || statusCode == 403:
		errType = ErrorTypeAuthentication
	case statusCode == 404:
		errType = ErrorTypeNotFound
	case statusCode == 429:
		errType = ErrorTypeRateLimit
	case statusCode >= 400 && statusCode < 500:
		errType = ErrorTypeBadRequest
	case statusCode >= 500:
		errType = ErrorTypeServerError
	}
	return NewProviderError(provider, errType, statusCode, message, wrapped)
}

// classifyContextError maps context cancellation and deadline errors.
func classifyContextError(provider string, err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(provider, ErrorTypeTimeout, 0, "request timed out", err)
	}
	return NewProviderError(provider, ErrorTypeCanceled, 0, "request canceled", err)
}
