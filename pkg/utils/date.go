package utils

import (
	"time"
)

// LoadLocation resolves a timezone name from config, treating "" and
// "Local" as the host timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// DayBounds returns the [start, end) of the calendar day containing t, in
// t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// PrettyDate formats a timestamp for outbound messages.
func PrettyDate(t time.Time) string {
	return t.Format("02 Jan 2006 15:04")
}
