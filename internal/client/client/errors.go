package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// RequestError is a non-2xx answer from the server.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func newRequestError(status int, msg string) *RequestError {
	if msg == "" {
		msg = fmt.Sprintf("Request failed with %d", status)
	}
	return &RequestError{Status: status, Message: msg}
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var re *RequestError
	switch {
	case errors.As(err, &re):
		return re.Message
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrUnavailable):
		return "Server unavailable"
	}
	return err.Error()
}
