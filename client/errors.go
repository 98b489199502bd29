package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork matches every failure where the backend was never reached.
	ErrNetwork = errors.New("network error: please check your connection and try again")
	// ErrShape matches responses whose body could not be used as structured data.
	ErrShape         = errors.New("unexpected response shape")
	ErrInvalidMethod = errors.New("unsupported http method")
)

// StatusError is returned when the backend answered with a non-2xx status.
// Authenticated is set when the request carried a bearer token.
type StatusError struct {
	Status        int
	Message       string
	Authenticated bool
}

func (e *StatusError) Error() string {
	return e.Message
}

// NetworkError wraps a transport failure. Its message stays generic; the
// cause is kept for logging.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return ErrNetwork.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func shapeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrShape, fmt.Sprintf(format, args...))
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func IsStatus(err error, status int) bool {
	return StatusOf(err) == status
}

// IsTokenRejected reports whether the backend refused a bearer token that
// was sent with the request.
func IsTokenRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Authenticated && se.Status == http.StatusUnauthorized
}
