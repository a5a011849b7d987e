package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrProviderUnavailable is returned when no provider is configured.
var ErrProviderUnavailable = errors.New("provider unavailable")

// FetchError captures transport, timeout and HTTP failures from a scrape.
type FetchError struct {
	Provider   string
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s fetch %s", e.Provider, e.URL)
	switch {
	case e.Timeout:
		msg += " timed out"
	case e.StatusCode > 0:
		msg += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr, true
	}
	return nil, false
}

// WrapFetchError wraps err as a FetchError unless it already is one.
func WrapFetchError(provider, url string, err error) error {
	if err == nil {
		return nil
	}
	if existing, ok := AsFetchError(err); ok {
		if !existing.Timeout && isTimeout(err) {
			existing.Timeout = true
		}
		return err
	}
	return &FetchError{Provider: provider, URL: url, Timeout: isTimeout(err), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
