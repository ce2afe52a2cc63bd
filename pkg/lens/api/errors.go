package api

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a document id with no server-side record. The
// navigator recovers from it by clearing the fragment and falling back
// to the picker.
var ErrNotFound = errors.New("document not found")

// NetworkError is a transport-level failure: no response at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Message carries the server's
// "error" body field when present, otherwise a synthesized status line.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }
