package core

import (
	"errors"
	"fmt"
)

// Error is the canonical error for every adapter and pipeline failure.
type Error struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error wrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrInvalidRequest covers malformed or empty input caught before any
	// adapter is invoked.
	ErrInvalidRequest ErrorType = "invalid_request_error"

	// ErrUnintelligible means the recognizer ran but produced no usable text.
	ErrUnintelligible ErrorType = "unintelligible_error"

	// ErrSTTUnavailable means the recognition backend could not be reached
	// or returned a failure.
	ErrSTTUnavailable ErrorType = "stt_unavailable_error"

	// ErrGeneration covers any response-generation upstream failure
	// (auth, rate limit, network, malformed response).
	ErrGeneration ErrorType = "generation_error"

	// ErrSynthesis covers text-to-speech failures.
	ErrSynthesis ErrorType = "synthesis_error"

	// ErrAPI is the catch-all for unexpected internal failures.
	ErrAPI ErrorType = "api_error"
)

// NewInvalidRequestError creates an invalid request error.
func NewInvalidRequestError(message string) *Error {
	return &Error{Type: ErrInvalidRequest, Message: message}
}

// NewUnintelligibleError reports audio the recognizer could not transcribe.
func NewUnintelligibleError() *Error {
	return &Error{Type: ErrUnintelligible, Message: "no speech recognized"}
}

// NewSTTUnavailableError wraps a recognition backend failure.
func NewSTTUnavailableError(detail string, cause error) *Error {
	return &Error{Type: ErrSTTUnavailable, Message: detail, Cause: cause}
}

// NewGenerationError wraps a response-generator upstream failure.
func NewGenerationError(provider string, cause error) *Error {
	return &Error{
		Type:    ErrGeneration,
		Message: fmt.Sprintf("%s: %v", provider, cause),
		Cause:   cause,
	}
}

// NewSynthesisError wraps a speech-synthesis failure.
func NewSynthesisError(detail string, cause error) *Error {
	return &Error{Type: ErrSynthesis, Message: detail, Cause: cause}
}

// NewAPIError creates a generic internal error.
func NewAPIError(message string) *Error {
	return &Error{Type: ErrAPI, Message: message}
}

// TypeOf extracts the canonical error type, or ErrAPI for foreign errors.
// The pipeline switches on this to pick the transcript notice for a failure,
// so every expected failure case is handled explicitly.
func TypeOf(err error) ErrorType {
	var coreErr *Error
	if errors.As(err, &coreErr) && coreErr != nil {
		return coreErr.Type
	}
	return ErrAPI
}
