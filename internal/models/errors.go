package models

import (
	"errors"
	"fmt"
)

// ErrNoImage is returned when an operation needs a loaded image and none is present.
var ErrNoImage = errors.New("no image loaded")

// DecodeError reports a file that could not be turned into an image.
type DecodeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot decode %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot decode %s: %s", e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UnknownFilterError is returned when a filter identifier is not registered.
type UnknownFilterError struct {
	ID string
}

func (e *UnknownFilterError) Error() string {
	return fmt.Sprintf("unknown filter %q", e.ID)
}

// FilterApplicationError wraps a failure raised while a filter ran.
type FilterApplicationError struct {
	Filter   string
	Strength int
	Err      error
}

func (e *FilterApplicationError) Error() string {
	return fmt.Sprintf("filter %s (strength %d) failed: %v", e.Filter, e.Strength, e.Err)
}

func (e *FilterApplicationError) Unwrap() error { return e.Err }
