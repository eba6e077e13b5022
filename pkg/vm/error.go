// Package vm provides the Media Station script interpreter: operands, the
// variable store, the bytecode decoder, code chunks, event handlers, built-in
// dispatch and the execution context they share.
package vm

import (
	"errors"
	"fmt"

	"github.com/zurustar/mediastation/pkg/datum"
)

// ErrorType represents the type of runtime error.
type ErrorType string

const (
	// Fatal errors - the current Execute call unwinds
	ErrorFormat        ErrorType = "FORMAT"
	ErrorTypeMismatch  ErrorType = "TYPE"
	ErrorResource      ErrorType = "RESOURCE"
	ErrorStackOverflow ErrorType = "STACK_OVERFLOW"

	// Downgraded to a warning unless the runtime is strict
	ErrorUnsupported ErrorType = "UNSUPPORTED"
)

var (
	// ErrParameterWrite is returned when a script assigns to a parameter.
	ErrParameterWrite = errors.New("parameters are read-only")

	// ErrNotAnAsset is returned when a method is called on something other
	// than an asset reference.
	ErrNotAnAsset = errors.New("method receiver is not an asset")

	// ErrUnknownAsset is returned when an asset id is not registered.
	ErrUnknownAsset = errors.New("asset does not exist in title")
)

// RuntimeError represents an error raised while loading or running a script.
type RuntimeError struct {
	Type    ErrorType
	Message string
	Offset  int    // Byte offset if available, -1 otherwise
	Context string // Chunk or handler being run
	Err     error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" (@0x%x)", e.Offset)
	}
	if e.Context != "" {
		msg += " in " + e.Context
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error must abort the current execution.
func (e *RuntimeError) IsFatal() bool {
	return e.Type != ErrorUnsupported
}

// NewRuntimeError creates a new RuntimeError without position information.
func NewRuntimeError(errType ErrorType, message string) *RuntimeError {
	return &RuntimeError{Type: errType, Message: message, Offset: -1}
}

// NewFormatError reports malformed bytecode at offset.
func NewFormatError(offset int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Type: ErrorFormat, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// NewTypeError reports a script that applies an operation to the wrong kind
// of value.
func NewTypeError(format string, args ...any) *RuntimeError {
	return NewRuntimeError(ErrorTypeMismatch, fmt.Sprintf(format, args...))
}

// NewUnsupportedError reports a built-in id this player does not know.
func NewUnsupportedError(format string, args ...any) *RuntimeError {
	return NewRuntimeError(ErrorUnsupported, fmt.Sprintf(format, args...))
}

// NewResourceError reports an asset whose authored values cannot be used.
func NewResourceError(format string, args ...any) *RuntimeError {
	return NewRuntimeError(ErrorResource, fmt.Sprintf(format, args...))
}

// NewStackOverflowError creates a STACK_OVERFLOW error.
func NewStackOverflowError(depth int) *RuntimeError {
	return NewRuntimeError(ErrorStackOverflow, fmt.Sprintf("maximum call depth %d exceeded", depth))
}

// WrapFormat converts a datum decode failure into a FORMAT RuntimeError
// carrying the failing offset. RuntimeErrors pass through unchanged.
func WrapFormat(err error, what string) error {
	if err == nil {
		return nil
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return err
	}
	offset := -1
	var fe *datum.FormatError
	if errors.As(err, &fe) {
		offset = fe.Offset
	}
	return &RuntimeError{Type: ErrorFormat, Message: what, Offset: offset, Err: err}
}

// IsFatal reports whether err must stop execution. Errors that are not
// RuntimeErrors are always fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.IsFatal()
	}
	return true
}

// ErrorTypeOf returns the ErrorType of err, or "" if err is not a RuntimeError.
func ErrorTypeOf(err error) ErrorType {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Type
	}
	return ""
}

// wrap attaches a cause so callers can match it with errors.Is.
func (e *RuntimeError) wrap(err error) *RuntimeError {
	e.Err = err
	return e
}
