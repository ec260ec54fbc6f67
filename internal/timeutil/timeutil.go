// Package timeutil converts the two time shapes stored in records: game
// dates as YYYY-MM-DD strings and timestamps as epoch milliseconds.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// GameDateLayout is the layout of Game.GameDate.
const GameDateLayout = "2006-01-02"

// StampLayout renders epoch-millisecond timestamps for people.
const StampLayout = "2006-01-02 15:04"

// ErrInvalidGameDate is returned for dates not in GameDateLayout.
var ErrInvalidGameDate = errors.New("game date must be YYYY-MM-DD")

// ParseGameDate parses a game date.
func ParseGameDate(value string) (time.Time, error) {
	t, err := time.Parse(GameDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidGameDate, value)
	}
	return t, nil
}

// GameDate formats t as a game date in t's own location.
func GameDate(t time.Time) string {
	return t.Format(GameDateLayout)
}

// Millis returns t as epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FormatMillis renders an epoch-millisecond timestamp in loc. Zero means never.
func FormatMillis(ms int64, loc *time.Location) string {
	if ms <= 0 {
		return "never"
	}
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format(StampLayout)
}
