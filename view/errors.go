package view

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrBusy is returned when a mutation is attempted while another request
	// of the same controller is in flight
	ErrBusy = errors.New("a request is already in flight")
	// ErrClosed is returned once the controller has been torn down
	ErrClosed = errors.New("view closed")
	// ErrControlDisabled is returned when the control is not available in the
	// current state (Previous on the first page, confirm without preview...)
	ErrControlDisabled = errors.New("control is disabled")
	// ErrSearchActive is returned by pagination controls while search results
	// are displayed
	ErrSearchActive = errors.New("pagination is unavailable while searching")
	// ErrCancelled is returned when the user declines a confirmation prompt
	ErrCancelled = errors.New("cancelled by user")
	// ErrSuperseded is returned when a newer request replaced this one before
	// its response arrived
	ErrSuperseded = errors.New("superseded by a newer request")
)

// InputError is a transient error caused by bad user input. It clears itself
// after the configured message TTL.
type InputError struct {
	Input  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// FetchError indicates a list or detail load failed
type FetchError struct {
	Resource string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationError indicates a create, update, delete, rent or return failed
type MutationError struct {
	Op  string
	Err error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates the requested entity does not exist
type NotFoundError struct {
	Resource string
	ID       int
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}
