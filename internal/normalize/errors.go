package normalize

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
)

// MalformedInputError reports a raw value that is not a record at all.
type MalformedInputError struct {
	Kind snapshot.Kind
	Got  string
	Err  error
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("malformed %s input: expected record, got %s", e.Kind, e.Got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// AsMalformedInputError attempts to unwrap an error into a MalformedInputError.
func AsMalformedInputError(err error) (*MalformedInputError, bool) {
	var mErr *MalformedInputError
	if errors.As(err, &mErr) {
		return mErr, true
	}
	return nil, false
}
