package timeutil

import (
	"testing"
	"time"
)

func TestFormatTimestampRoundTrips(t *testing.T) {
	value := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	formatted := FormatTimestamp(value)
	if formatted != "2024-01-02T03:04:05.006Z" {
		t.Fatalf("unexpected timestamp %s", formatted)
	}
	parsed, err := ParseTimestamp(formatted)
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if !parsed.Equal(value) {
		t.Fatalf("expected %s, got %s", value, parsed)
	}
}

func TestFormatTimestampConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("test", 3*60*60)
	value := time.Date(2024, 1, 2, 1, 0, 0, 0, loc)
	if got := FormatTimestamp(value); got != "2024-01-01T22:00:00.000Z" {
		t.Fatalf("expected UTC timestamp, got %s", got)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}
