package stash

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrInvalidRequest is returned when a cache or request is missing a
	// required field.
	ErrInvalidRequest = errors.New("invalid request")
)

// DecodeError reports a cache entry that exists on disk but could not be
// decompressed or parsed. It is treated as a cache miss: the entry is
// recomputed and overwritten wholesale.
type DecodeError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode cache entry %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying failure for use with errors.Is and errors.As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
