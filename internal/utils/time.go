package utils

import (
	"fmt"
	"regexp"
	"time"

	"github.com/julianstephens/dailyspark/internal/constants"
)

// Clock returns the current instant. Components take a Clock instead of calling
// time.Now directly so that "today" can be pinned in tests.
type Clock func() time.Time

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SystemClock returns a Clock reading the wall clock in the given location.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// FormatDate formats t as YYYY-MM-DD using t's own location. The value is never
// normalized to UTC, so a late-evening local time stays on its local day.
func FormatDate(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// Today returns the clock's current local date.
func Today(clock Clock) string {
	return FormatDate(clock())
}

// Yesterday returns the local date one calendar day before today.
func Yesterday(clock Clock) string {
	return DaysAgo(clock, 1)
}

// DaysAgo returns the local date n calendar days before today.
func DaysAgo(clock Clock, n int) string {
	now := clock()
	return FormatDate(time.Date(now.Year(), now.Month(), now.Day()-n, 12, 0, 0, 0, now.Location()))
}

// IsToday reports whether date is today's local date. A nil date is never today.
func IsToday(clock Clock, date *string) bool {
	return date != nil && *date == Today(clock)
}

// IsYesterday reports whether date is yesterday's local date.
func IsYesterday(clock Clock, date *string) bool {
	return date != nil && *date == Yesterday(clock)
}

// CompareDates compares two YYYY-MM-DD strings. The format is fixed width and
// zero padded, so lexicographic order is calendar order.
func CompareDates(a, b string) int {
	switch {
	case a == b:
		return 0
	case a < b:
		return -1
	default:
		return 1
	}
}

// IsDateBefore reports whether date falls before other.
func IsDateBefore(date, other string) bool {
	return date < other
}

// IsDateAfter reports whether date falls after other.
func IsDateAfter(date, other string) bool {
	return date > other
}

// IsDateBetween reports whether date lies in [start, end].
func IsDateBetween(date, start, end string) bool {
	return date >= start && date <= end
}

// IsValidDate reports whether s is a strict YYYY-MM-DD string naming a real
// calendar day. Feb 30, month 13, day 0, other separators and missing zero
// padding are all rejected.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD string as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	t, _ := time.Parse(constants.DateFormat, s)
	if loc == nil {
		loc = time.Local
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days. The arithmetic is done on
// the civil date in UTC, which has no DST transitions, and formatted straight
// back, so the result is the same calendar day in any zone.
func AddDays(date string, n int) (string, error) {
	t, err := ParseDate(date, time.UTC)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// ValidateTimeFormat checks if the string matches the standard time format (HH:MM).
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil && len(timeStr) == len(constants.TimeFormat)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NextOccurrence returns the next instant at or after now whose wall clock reads timeStr.
func NextOccurrence(now time.Time, timeStr string) (time.Time, error) {
	mins, err := ParseTimeToMinutes(timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), mins/60, mins%60, 0, 0, now.Location())
	if next.Before(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, mins/60, mins%60, 0, 0, now.Location())
	}
	return next, nil
}
