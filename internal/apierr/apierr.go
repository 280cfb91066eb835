package apierr

// apierr defines the error taxonomy shared by every Tome API operation:
// validation errors raised locally before any network call, HTTP errors for
// non-2xx responses, and network errors for transport failures.

import (
	"errors"
	"fmt"
)

// ValidationError reports input that failed a local format rule.
// It never corresponds to a request that reached the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPError reports a non-2xx response from the API. Message carries the
// server-provided detail when the body had one, otherwise a generic
// per-operation message embedding the status code.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

// HTTP builds an HTTPError for the given status. detail wins over the
// fallback message when non-empty.
func HTTP(status int, detail, fallback string) *HTTPError {
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("%s: %d", fallback, status)
	}
	return &HTTPError{Status: status, Message: msg}
}

// NetworkError reports a transport-level failure (unreachable host,
// connection reset, context cancellation in flight).
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Cause) }

func (e *NetworkError) Unwrap() error { return e.Cause }

// Network wraps a transport failure for the named operation.
func Network(op string, cause error) *NetworkError {
	return &NetworkError{Op: op, Cause: cause}
}
