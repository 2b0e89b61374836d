package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an engine error. There are exactly three kinds:
// configuration errors are discovered when features are built, request
// errors mean the caller supplied invalid input for a call, and targeting
// errors mean an audience expression failed to compile or evaluate.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindRequest       ErrorKind = "request"
	KindTargeting     ErrorKind = "targeting"
)

// Sentinel values for use with errors.Is.
var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrRequest       = &Error{Kind: KindRequest}
	ErrTargeting     = &Error{Kind: KindTargeting}
)

// Error is the structured error type surfaced by the engine, both as a
// build-time error and on Decision.Error.
type Error struct {
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Is matches any *Error of the same kind, so
// errors.Is(err, engine.ErrConfiguration) works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// NewConfigurationError returns a configuration-kind error.
func NewConfigurationError(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NewRequestError returns a request-kind error.
func NewRequestError(format string, args ...any) *Error {
	return &Error{Kind: KindRequest, Message: fmt.Sprintf(format, args...)}
}

// NewTargetingError returns a targeting-kind error.
func NewTargetingError(format string, args ...any) *Error {
	return &Error{Kind: KindTargeting, Message: fmt.Sprintf(format, args...)}
}

// asError coerces err into an *Error, defaulting to the request kind for
// errors that originate outside the engine.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindRequest, Message: err.Error()}
}
