package testutil

import (
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// MustParseTimestamp parses an updatedAt timestamp or panics; intended for tests.
func MustParseTimestamp(v string) time.Time {
	t, err := timeutil.ParseTimestamp(v)
	if err != nil {
		panic(err)
	}
	return t
}
