package gallery

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a search query is blank after trimming.
var ErrEmptyQuery = errors.New("search query is empty")

// Error represents an API error: a non-2xx response with a JSON body.
type Error struct {
	StatusCode int
	Message    string // Server-provided message, empty if the body had none
	Op         string // Operation that failed (e.g., "Upload")
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, msg)
}

// IsStatus reports whether err is an API error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// ServerMessage returns the server-provided message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
