// Package errors provides structured error types for jsonscope.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP server and the core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (including unparseable JSON)
//   - *_NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPath, "path %q does not exist", p)
//	if errors.Is(err, errors.ErrCodeInvalidPath) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidJSON, syntaxErr, "unexpected end of input")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidJSON    Code = "INVALID_JSON"
	ErrCodeEmptyInput     Code = "EMPTY_INPUT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidQuery   Code = "INVALID_QUERY"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidOptions Code = "INVALID_OPTIONS"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Size limits
	ErrCodeTooLarge Code = "TOO_LARGE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Category groups codes by how a caller should react to them.
type Category int

const (
	// CategoryInternal is unexpected and not the caller's fault.
	CategoryInternal Category = iota
	// CategoryInvalid means the request or document must change.
	CategoryInvalid
	// CategoryNotFound means the addressed thing does not exist.
	CategoryNotFound
	// CategoryLimit means the input exceeds a size limit.
	CategoryLimit
	// CategoryUnsupported means the environment lacks a capability.
	CategoryUnsupported
)

// Category returns the category of c. Unknown codes are internal.
func (c Code) Category() Category {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidJSON, ErrCodeEmptyInput, ErrCodeInvalidPath,
		ErrCodeInvalidQuery, ErrCodeInvalidFormat, ErrCodeInvalidOptions:
		return CategoryInvalid
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound:
		return CategoryNotFound
	case ErrCodeTooLarge:
		return CategoryLimit
	case ErrCodeUnsupported:
		return CategoryUnsupported
	}
	return CategoryInternal
}

// Error carries a code, a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in the chain of err has code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in the chain of err, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err for people: the outermost *Error contributes its
// message without code or cause, and context added around it with
// fmt.Errorf is kept.
//
//	UserMessage(fmt.Errorf("data.json: %w", New(ErrCodeInvalidJSON, "unexpected end of input")))
//	// data.json: unexpected end of input
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if full := err.Error(); full != e.Error() {
		return strings.Replace(full, e.Error(), e.Message, 1)
	}
	return e.Message
}
