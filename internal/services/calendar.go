package services

import (
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// DateInput is a parsed date string. Day is the UTC calendar day used as a
// log key; Instant is the exact moment the caller supplied.
type DateInput struct {
	Day     time.Time
	Instant time.Time
}

// NormalizeDate accepts either a plain YYYY-MM-DD day or an ISO-8601
// timestamp. Timestamps without an offset are read as UTC.
func NormalizeDate(raw string) (DateInput, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DateInput{}, ErrInvalidDateFormat
	}

	if !strings.Contains(value, "T") {
		parsed, err := time.ParseInLocation(dayLayout, value, time.UTC)
		if err != nil {
			return DateInput{}, ErrInvalidDateFormat
		}
		return DateInput{Day: parsed, Instant: parsed}, nil
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, value, time.UTC)
		if err != nil {
			continue
		}
		instant := parsed.UTC()
		return DateInput{Day: UTCDay(instant), Instant: instant}, nil
	}
	return DateInput{}, ErrInvalidDateFormat
}

// NormalizeDay is NormalizeDate for callers that only need the day key.
func NormalizeDay(raw string) (time.Time, error) {
	parsed, err := NormalizeDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.Day, nil
}

func UTCDay(value time.Time) time.Time {
	year, month, day := value.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last microsecond of the UTC day containing value.
func EndOfDay(value time.Time) time.Time {
	return UTCDay(value).Add(24*time.Hour - time.Microsecond)
}

func DayRange(value time.Time) (time.Time, time.Time) {
	start := UTCDay(value)
	return start, start.AddDate(0, 0, 1)
}

func SameLogDay(a time.Time, b time.Time) bool {
	return UTCDay(a).Equal(UTCDay(b))
}

func FormatDay(value time.Time) string {
	return value.UTC().Format(dayLayout)
}
