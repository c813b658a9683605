package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeDate parses a calendar date supplied in any common representation
// (ISO, slash-separated, spreadsheet display formats) and returns it truncated
// to midnight UTC. Time-of-day information in the input is discarded.
func NormalizeDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	parsed, err := dateparse.ParseAny(trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", trimmed, err)
	}

	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders a date as its canonical ISO form (YYYY-MM-DD).
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
