package types

import "fmt"

// ErrorCode represents a unified error code across the index subsystem.
type ErrorCode string

// Index error codes
const (
	ErrConfig         ErrorCode = "CONFIG_ERROR"
	ErrRead           ErrorCode = "READ_ERROR"
	ErrWrite          ErrorCode = "WRITE_ERROR"
	ErrParse          ErrorCode = "PARSE_ERROR"
	ErrValidation     ErrorCode = "VALIDATION_FAILED"
	ErrIndexNotFound  ErrorCode = "INDEX_NOT_FOUND"
	ErrIndexExhausted ErrorCode = "INDEX_EXHAUSTED"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Module  string    `json:"module,omitempty"`
	Path    string    `json:"path,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithModule tags the error with the component module it concerns.
func (e *Error) WithModule(module string) *Error {
	e.Module = module
	return e
}

// WithPath tags the error with the filesystem path it concerns.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsErrorCode checks whether an error carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
