package utils

import (
	"strconv"
	"strings"
	"time"
)

const TimeSlotLayout = "2006-01-02T15:04:05Z"

var timeSlotLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// NormalizeTimeSlot parses an ISO-8601 timestamp and returns it in UTC,
// truncated to the second. Inputs without a zone are read as UTC.
func NormalizeTimeSlot(raw string) (time.Time, string, error) {
	value := strings.TrimSpace(raw)

	var (
		parsed time.Time
		err    error
	)
	for _, layout := range timeSlotLayouts {
		parsed, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, "", err
	}

	parsed = parsed.UTC().Truncate(time.Second)
	return parsed, parsed.Format(TimeSlotLayout), nil
}

// AgeFromBirthDate returns now.Year() minus the year of a YYYY-MM-DD birth date.
func AgeFromBirthDate(birthDate string, now time.Time) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(birthDate), "-", 2)
	if len(parts) < 2 || len(parts[0]) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	age := now.Year() - year
	if age < 0 {
		return 0, false
	}
	return age, true
}
