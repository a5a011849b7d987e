package store

import (
	"errors"
	"fmt"
)

// StoreReadError reports a failed read of the previously stored document.
type StoreReadError struct {
	Backend string
	Path    string
	Err     error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("%s store read %q: %v", e.Backend, e.Path, e.Err)
}

func (e *StoreReadError) Unwrap() error {
	return e.Err
}

// StoreWriteError reports a failed batch write.
type StoreWriteError struct {
	Backend string
	Paths   []string
	Err     error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s store write of %d paths: %v", e.Backend, len(e.Paths), e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

// AsStoreReadError attempts to unwrap an error into a StoreReadError.
func AsStoreReadError(err error) (*StoreReadError, bool) {
	var readErr *StoreReadError
	if errors.As(err, &readErr) {
		return readErr, true
	}
	return nil, false
}

// AsStoreWriteError attempts to unwrap an error into a StoreWriteError.
func AsStoreWriteError(err error) (*StoreWriteError, bool) {
	var writeErr *StoreWriteError
	if errors.As(err, &writeErr) {
		return writeErr, true
	}
	return nil, false
}
