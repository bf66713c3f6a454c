package http

import (
	"fmt"
	"net/http"
)

// Error carries the status a failure should be answered with.
type Error struct {
	Status  int
	Message string
	Err     error
}

func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// WrapError attaches status to err.
func WrapError(status int, err error) *Error {
	return &Error{Status: status, Message: http.StatusText(status), Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("http: %d %s: %v", e.Status, e.Message, e.Err)
	}

	return fmt.Sprintf("http: %d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
