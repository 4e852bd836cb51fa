// Package datetime parses and formats the date/time notation used in the
// bot's dialogs: dates as ДД.ММ.ГГГГ (DD.MM.YYYY), times as 24-hour ЧЧ:ММ.
package datetime

import (
	"strings"
	"time"
)

const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04"

	// ISOLocal is the zone-less layout event documents store their
	// starts_at/ends_at fields in.
	ISOLocal = "2006-01-02T15:04:05"
)

// ParseDate parses a DD.MM.YYYY date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// ParseClock parses a 24-hour HH:MM time of day.
func ParseClock(value string) (time.Time, error) {
	return time.Parse(TimeLayout, strings.TrimSpace(value))
}

// ParseISOLocal parses a zone-less ISO-8601 timestamp in the given location.
func ParseISOLocal(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(ISOLocal, strings.TrimSpace(value), loc)
}

// FormatISOLocal renders t as a zone-less ISO-8601 timestamp.
func FormatISOLocal(t time.Time) string {
	return t.Format(ISOLocal)
}

// FormatDate renders t as DD.MM.YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatClock renders t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format(TimeLayout)
}

// FormatRange renders "DD.MM.YYYY · HH:MM" or "DD.MM.YYYY · HH:MM – HH:MM"
// when an end time is present.
func FormatRange(start time.Time, end time.Time, hasEnd bool) string {
	s := start.Format(DateLayout) + " · " + start.Format(TimeLayout)
	if hasEnd {
		s += " – " + end.Format(TimeLayout)
	}
	return s
}
