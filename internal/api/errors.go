package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// InputError is an invalid or missing identifier caught before any request is issued.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string { return e.Message }

// NetworkError means the request did not complete (DNS, refused, timeout, cancelled).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a completed request the server did not accept: a non-2xx
// status, or a 2xx envelope with success=false.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *ServerError) NotFound() bool { return e.Status == http.StatusNotFound }

// Message picks the text shown to the user: the input or server message when
// there is one, else the per-operation fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var inErr *InputError
	if errors.As(err, &inErr) && strings.TrimSpace(inErr.Message) != "" {
		return inErr.Message
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) && strings.TrimSpace(srvErr.Message) != "" {
		return srvErr.Message
	}
	return fallback
}

// RequireID rejects non-positive identifiers with the "Invalid <kind> ID" message.
func RequireID(kind string, id int64) error {
	if id > 0 {
		return nil
	}
	return invalidID(kind)
}

func invalidID(kind string) error {
	return &InputError{Field: kind + "Id", Message: "Invalid " + kind + " ID"}
}
