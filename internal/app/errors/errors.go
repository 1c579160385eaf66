package errors

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Per-segment transcription errors are absorbed by
// the orchestrator; the rest abort the run.
var (
	// Ingestion errors
	ErrEmptyInput        = New("empty input")
	ErrUnsupportedFormat = New("unsupported audio format")
	ErrCorruptAudio      = New("corrupt audio data")

	// Analysis errors
	ErrSegmentationFailed = New("segmentation failed")

	// Per-segment transcription errors (non-fatal)
	ErrTimeout  = New("operation timed out")
	ErrNoSpeech = New("no speech detected")

	// Post-assembly errors
	ErrEmptyTranscript = New("empty transcript")

	// Summarization errors
	ErrMalformedResponse = New("malformed service response")
	ErrRateLimited       = New("rate limited")
)

// Error is a message+cause wrapper shared by the app packages.
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WithCause attaches a cause to a sentinel so that errors.Is still matches
// the sentinel.
func WithCause(sentinel *Error, cause error) error {
	return &Error{message: sentinel.message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// ServiceError is a transport or non-2xx failure from an external service.
// The orchestrator treats it as retryable.
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("service error (%d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("service error: %s", e.Message)
}

// NewServiceError creates a ServiceError with an HTTP-like status code.
func NewServiceError(code int, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// IsServiceError reports whether err is (or wraps) a ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
