package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// Path errors
	ErrPathResolution ErrorCode = "PATH_RESOLUTION"

	// Source errors
	ErrSourceRead ErrorCode = "SOURCE_READ"

	// Materialization errors
	ErrSerialization ErrorCode = "SERIALIZATION"
	ErrWrite         ErrorCode = "WRITE"
	ErrDecode        ErrorCode = "DECODE"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"

	// Launch errors
	ErrExec ErrorCode = "EXEC"
)

// ExitFailure is the process exit code for any error surfaced by ccstart itself.
const ExitFailure = 1

// CodedError represents a structured error with code and details
type CodedError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CodedError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CodedError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CodedError) Is(target error) bool {
	var targetErr *CodedError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CodedError with the given code and message
func New(code ErrorCode, message string) *CodedError {
	return &CodedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CodedError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CodedError {
	return &CodedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CodedError
func Wrap(err error, code ErrorCode, message string) *CodedError {
	if err == nil {
		return nil
	}
	return &CodedError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CodedError {
	if err == nil {
		return nil
	}
	return &CodedError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CodedError) WithDetail(key string, value interface{}) *CodedError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var codedErr *CodedError
	if errors.As(err, &codedErr) {
		return codedErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CodedError
func GetErrorCode(err error) ErrorCode {
	var codedErr *CodedError
	if errors.As(err, &codedErr) {
		return codedErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CodedError
func GetErrorDetails(err error) map[string]interface{} {
	var codedErr *CodedError
	if errors.As(err, &codedErr) {
		return codedErr.Details
	}
	return nil
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return ExitFailure
}

// UserMessage renders err as a single line without code tags.
// Each CodedError in the chain contributes its message; other errors
// contribute their full text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var parts []string
	for err != nil {
		codedErr, ok := err.(*CodedError)
		if !ok {
			parts = append(parts, err.Error())
			break
		}
		if codedErr.Message != "" {
			parts = append(parts, codedErr.Message)
		}
		err = codedErr.Wrapped
	}

	msg := strings.Join(parts, ": ")
	return strings.Join(strings.Fields(msg), " ")
}
