package testutil

import (
	"time"

	"github.com/itbasis/go-clock"
)

// NewClock returns a mock clock pinned at t. Advance it with Add or Set.
func NewClock(t time.Time) *clock.Mock {
	c := clock.NewMock()
	c.Set(t)
	return c
}

// MustParseRFC3339 parses an RFC3339 timestamp or panics; intended for tests.
func MustParseRFC3339(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}
