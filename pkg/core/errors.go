package core

import (
	"fmt"
)

// ErrorCategory classifies a failure seen by the panel.
type ErrorCategory int

const (
	ErrCategoryNone         ErrorCategory = iota // No error
	ErrCategoryTransport                         // Network failure, connection refused
	ErrCategoryHTTP                              // Non-2xx response
	ErrCategoryDecode                            // Response body could not be parsed
	ErrCategoryApplication                       // 2xx response carrying a failure status
	ErrCategoryPrecondition                      // Missing selection, missing input
	ErrCategoryCancelled                         // User declined a confirmation
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryTransport:
		return "transport"
	case ErrCategoryHTTP:
		return "http"
	case ErrCategoryDecode:
		return "decode"
	case ErrCategoryApplication:
		return "application"
	case ErrCategoryPrecondition:
		return "precondition"
	case ErrCategoryCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ClientError is a categorized error raised by the panel or its API client.
type ClientError struct {
	Category ErrorCategory
	Code     string // Machine-readable code: no_selection, test_case_not_found, etc.
	Message  string // Human-readable message
	Cause    error  // Underlying error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same code, so wrapped copies of the
// predefined errors still satisfy errors.Is.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ClientError) WithCause(cause error) *ClientError {
	return &ClientError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ClientError) WithMessage(msg string) *ClientError {
	return &ClientError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	ErrNoSelection = &ClientError{
		Category: ErrCategoryPrecondition,
		Code:     "no_selection",
		Message:  "no exploration selected",
	}
	ErrTestCaseNotFound = &ClientError{
		Category: ErrCategoryPrecondition,
		Code:     "test_case_not_found",
		Message:  "test case not found",
	}
	ErrNoCode = &ClientError{
		Category: ErrCategoryPrecondition,
		Code:     "no_code",
		Message:  "test case has no generated code",
	}
	ErrDriverPathRequired = &ClientError{
		Category: ErrCategoryPrecondition,
		Code:     "driver_path_required",
		Message:  "chromedriver path is required",
	}
	ErrCancelled = &ClientError{
		Category: ErrCategoryCancelled,
		Code:     "cancelled",
		Message:  "cancelled by user",
	}
	ErrStaleResponse = &ClientError{
		Category: ErrCategoryCancelled,
		Code:     "stale_response",
		Message:  "selection changed while the request was in flight",
	}
	ErrUnexpectedStatus = &ClientError{
		Category: ErrCategoryApplication,
		Code:     "unexpected_status",
		Message:  "service reported a failure status",
	}
	ErrDecode = &ClientError{
		Category: ErrCategoryDecode,
		Code:     "decode",
		Message:  "could not parse response",
	}
	ErrTransport = &ClientError{
		Category: ErrCategoryTransport,
		Code:     "transport",
		Message:  "request failed",
	}
)
