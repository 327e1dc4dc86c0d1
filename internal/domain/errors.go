package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes surfaced in the API error envelope.
const (
	CodeInvalidJSON          = "invalid_json"
	CodeInvalidEngineConfig  = "invalid_engine_config"
	CodeInvalidEngineConfigs = "invalid_engine_configs"
	CodeMissingEngineConfig  = "missing_engine_config"
	CodeMissingAPIKey        = "missing_api_key"
	CodeUnsupportedChannel   = "unsupported_channel"
	CodeValidationError      = "validation_error"
	CodeUpstreamFailed       = "upstream_translation_failed"
	CodeNotFound             = "not_found"
	CodeInternalError        = "internal_error"
)

// APIError is the boundary error type. Services return it for failures the
// caller should see classified; anything else maps to a generic 500.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// NewAPIError builds an APIError with the given HTTP status classification.
func NewAPIError(status int, code, message string, details any) *APIError {
	return &APIError{Status: status, Code: code, Message: message, Details: details}
}

// BadRequest builds a 400-class configuration/input error.
func BadRequest(code, message string, details any) *APIError {
	return NewAPIError(http.StatusBadRequest, code, message, details)
}

// UpstreamError builds a 502-class error for single-engine modes where an
// upstream provider failure has no fan-out to hide behind.
func UpstreamError(message string, details any) *APIError {
	return NewAPIError(http.StatusBadGateway, CodeUpstreamFailed, message, details)
}

// AsAPIError extracts an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
