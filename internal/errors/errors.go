// Package errors provides the error taxonomy shared by the quote calculator.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error (non-positive hours, unknown tier, ...)
	TypeInput Type = "INPUT_ERROR"

	// TypeNotConfigured indicates the routing API key is missing
	TypeNotConfigured Type = "NOT_CONFIGURED"

	// TypeAddressNotFound indicates geocoding produced no usable match
	TypeAddressNotFound Type = "ADDRESS_NOT_FOUND"

	// TypeDistanceUnavailable indicates the distance matrix call failed
	TypeDistanceUnavailable Type = "DISTANCE_UNAVAILABLE"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// userMessages are the short strings surfaced to end users per type.
var userMessages = map[Type]string{
	TypeInput:               "Invalid input",
	TypeNotConfigured:       "API not configured",
	TypeAddressNotFound:     "Address not found",
	TypeDistanceUnavailable: "Distance calculation failed",
	TypeConfig:              "Configuration error",
	TypeNotFound:            "Not found",
	TypeInternal:            "Something went wrong",
}

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// TypeOf returns the type of the first *Error in err's chain, or TypeInternal.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// IsType checks if an error, or anything it wraps, is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// UserMessage returns a short human-readable description of err.
// Domain errors keep their own message; anything else collapses to a generic string.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return userMessages[e.Type]
	}
	return userMessages[TypeInternal]
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Inputf creates a formatted input error
func Inputf(format string, args ...interface{}) *Error {
	return Newf(TypeInput, format, args...)
}

// NotConfigured creates a not configured error
func NotConfigured(message string) *Error {
	return New(TypeNotConfigured, message)
}

// AddressNotFound creates an address not found error
func AddressNotFound(cause error) *Error {
	return Wrap(TypeAddressNotFound, userMessages[TypeAddressNotFound], cause)
}

// DistanceUnavailable creates a distance unavailable error
func DistanceUnavailable(cause error) *Error {
	return Wrap(TypeDistanceUnavailable, userMessages[TypeDistanceUnavailable], cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// Summary returns the fixed per-type user string, ignoring the error's own message
func Summary(err error) string {
	if err == nil {
		return ""
	}
	return userMessages[TypeOf(err)]
}
