package timeutil

import (
	"fmt"
	"sync"
	"time"
)

// locationCache stores cached timezone locations for performance.
var locationCache sync.Map

// UTC is the Coordinated Universal Time zone name.
const UTC = "UTC"

// DateLayout is the calendar date layout used in queries (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// GetLocation returns a cached timezone location.
// It caches the result for subsequent calls with the same name.
func GetLocation(name string) (*time.Location, error) {
	if loc, ok := locationCache.Load(name); ok {
		return loc.(*time.Location), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}

	locationCache.Store(name, loc)
	return loc, nil
}

// MustGetLocation returns a cached timezone location or panics on error.
// Use this for names already validated by configuration.
func MustGetLocation(name string) *time.Location {
	loc, err := GetLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// InTimezone converts a time to the specified timezone.
func InTimezone(t time.Time, timezone string) (time.Time, error) {
	loc, err := GetLocation(timezone)
	if err != nil {
		return t, err
	}
	return t.In(loc), nil
}

// ParseDate parses a YYYY-MM-DD calendar date in the given location.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SameDay reports whether a and b fall on the same calendar day once both are
// expressed in loc. Time of day is ignored.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc != nil {
		a, b = a.In(loc), b.In(loc)
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns the start of the day (00:00:00) for the given time.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
