package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Reversal errors. These map onto the outcomes a strategy can
	// report: bad payload, missing restoration data, a target that is
	// no longer where the operation left it, a plain filesystem fault,
	// and the two terminal dispatch cases.
	ErrValidation          ErrorCode = "VALIDATION"
	ErrContentUnavailable  ErrorCode = "CONTENT_UNAVAILABLE"
	ErrTargetNotFound      ErrorCode = "TARGET_NOT_FOUND"
	ErrIOFailure           ErrorCode = "IO_FAILURE"
	ErrUnsupportedReversal ErrorCode = "UNSUPPORTED_REVERSAL"
	ErrUnknownKind         ErrorCode = "UNKNOWN_OPERATION_KIND"

	// Journal errors
	ErrJournalLoad  ErrorCode = "JOURNAL_LOAD"
	ErrJournalSave  ErrorCode = "JOURNAL_SAVE"
	ErrOpNotFound   ErrorCode = "OPERATION_NOT_FOUND"
	ErrDependency   ErrorCode = "DEPENDENCY"
	ErrBackupFailed ErrorCode = "BACKUP_FAILED"
)

// RewindError represents a structured error with code and details
type RewindError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RewindError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RewindError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *RewindError) Is(target error) bool {
	var targetErr *RewindError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RewindError with the given code and message
func New(code ErrorCode, message string) *RewindError {
	return &RewindError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RewindError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RewindError {
	return &RewindError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RewindError
func Wrap(err error, code ErrorCode, message string) *RewindError {
	if err == nil {
		return nil
	}
	return &RewindError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RewindError {
	if err == nil {
		return nil
	}
	return &RewindError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RewindError) WithDetail(key string, value interface{}) *RewindError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rewindErr *RewindError
	if errors.As(err, &rewindErr) {
		return rewindErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RewindError
func GetErrorCode(err error) ErrorCode {
	var rewindErr *RewindError
	if errors.As(err, &rewindErr) {
		return rewindErr.Code
	}
	return ErrUnknown
}
