package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx answer from the applications API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("applications api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("applications api: status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401 answer.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

type errorResponse struct {
	Message string `json:"message"`
}

func newError(statusCode int, payload []byte) *Error {
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return &Error{StatusCode: statusCode}
	}
	return &Error{StatusCode: statusCode, Message: strings.TrimSpace(parsed.Message)}
}

// Message returns the server-supplied message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
