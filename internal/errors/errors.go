package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ParseFailed indicates a snapshot payload is not a valid dump document
	ParseFailed ErrorCode = "PARSE_FAILED"
	// UnsupportedSchema indicates the dump declares a schema version we cannot read
	UnsupportedSchema ErrorCode = "UNSUPPORTED_SCHEMA"
	// PayloadDecodeFailed indicates a compressed payload could not be inflated
	PayloadDecodeFailed ErrorCode = "PAYLOAD_DECODE_FAILED"
	// RenderFailed indicates the markup or report writer failed
	RenderFailed ErrorCode = "RENDER_FAILED"
	// CacheFailed indicates the changelog cache could not be read or written
	CacheFailed ErrorCode = "CACHE_FAILED"
	// InvalidRequest indicates the caller passed an unusable request
	InvalidRequest ErrorCode = "INVALID_REQUEST"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ApiDiffError carries a stable code, a message and an optional cause.
type ApiDiffError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new ApiDiffError
func New(code ErrorCode, message string, cause error) *ApiDiffError {
	return &ApiDiffError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new ApiDiffError without a cause using a format string
func Newf(code ErrorCode, format string, args ...interface{}) *ApiDiffError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *ApiDiffError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ApiDiffError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *ApiDiffError) WithDetails(details interface{}) *ApiDiffError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first ApiDiffError in err's chain,
// or the empty code when there is none.
func CodeOf(err error) ErrorCode {
	var apiErr *ApiDiffError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsParseError reports whether err means a snapshot could not be loaded.
func IsParseError(err error) bool {
	switch CodeOf(err) {
	case ParseFailed, UnsupportedSchema, PayloadDecodeFailed:
		return true
	}
	return false
}
