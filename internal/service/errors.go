package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any not-found failure, local or server-side.
var ErrNotFound = errors.New("not found")

// TransportError is a failure to reach the backend at all:
// connection refused, DNS, timeout.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a response the client cannot accept: a non-2xx status, or a
// 2xx whose body is malformed or holds an invalid task. In the latter case
// StatusCode is the 2xx status and Message starts with what was wrong.
// NotFound and server-side validation failures are not distinguished beyond
// the status code.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: server error %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server error %d: %s", e.Op, e.StatusCode, e.Message)
}

// Is makes a 404 ServerError match ErrNotFound.
func (e *ServerError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ValidationError is a client-side form constraint violation.
// It is raised before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBackend reports whether err came from the backend (transport or server).
func IsBackend(err error) bool {
	var te *TransportError
	var se *ServerError
	return errors.As(err, &te) || errors.As(err, &se)
}
