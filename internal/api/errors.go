package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the server rejected the bearer token. It is
// mapped centrally in the client so call sites do not re-implement 401
// detection.
var ErrUnauthorized = errors.New("authentication failed, please log in again")

// Error is a non-2xx API response. Message carries the server's own error
// message verbatim when one could be parsed, otherwise a generic fallback.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// errorBody covers the two error envelope shapes the API emits.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Err
}
