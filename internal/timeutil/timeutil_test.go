package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseGameDate(t *testing.T) {
	parsed, err := ParseGameDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := GameDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
}

func TestParseGameDateRejectsOtherLayouts(t *testing.T) {
	for _, in := range []string{"", "01/02/2024", "2024-1-2", "2024-02-30"} {
		if _, err := ParseGameDate(in); !errors.Is(err, ErrInvalidGameDate) {
			t.Fatalf("expected ErrInvalidGameDate for %q, got %v", in, err)
		}
	}
}

func TestGameDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := GameDate(value); got != "2024-01-02" {
		t.Fatalf("expected local calendar date, got %s", got)
	}
}

func TestFormatMillis(t *testing.T) {
	if got := FormatMillis(0, time.UTC); got != "never" {
		t.Fatalf("expected never for zero, got %s", got)
	}
	ms := Millis(time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC))
	if got := FormatMillis(ms, time.UTC); got != "2024-03-01 18:30" {
		t.Fatalf("expected formatted stamp, got %s", got)
	}
}
