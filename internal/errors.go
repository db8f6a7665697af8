package internal

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a turn is started while another one is in flight
var ErrBusy = errors.New("a turn is already in progress")

// GatewayError represents a failed call to the chat-completion endpoint
type GatewayError struct {
	StatusCode int
	Status     string // HTTP status line, or a short reason for transport failures
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway error: %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("gateway error: %s", e.Status)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// StorageError represents errors accessing the key/value store.
// The session store logs these and degrades; they never cross its boundary.
type StorageError struct {
	Op  string // "open", "get", "put"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
