package common

import (
	"fmt"
	"net/http"
)

type DetailedError interface {
	Detail() string
}

// APIError is a request-level error that maps directly to an HTTP
// status code. The Message is safe to return to clients. The
// underlying Err, if any, is for the logs only.
type APIError struct {
	Err     error
	Message string
	Status  int
}

func NewBadRequest(message string) *APIError {
	return &APIError{Message: message, Status: http.StatusBadRequest}
}

func NewUnauthenticated(message string) *APIError {
	return &APIError{Message: message, Status: http.StatusUnauthorized}
}

func NewForbidden(message string) *APIError {
	return &APIError{Message: message, Status: http.StatusForbidden}
}

func NewNotFound(message string) *APIError {
	return &APIError{Message: message, Status: http.StatusNotFound}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func (e *APIError) Error() string {
	return e.Message
}

// This returns a detailed error message for the logs.
func (e *APIError) Detail() string {
	underlyingError := ""
	if e.Err != nil {
		underlyingError = fmt.Sprintf(" (Underlying error: %s)", e.Err.Error())
	}
	return fmt.Sprintf("[%d] %s%s", e.Status, e.Message, underlyingError)
}
