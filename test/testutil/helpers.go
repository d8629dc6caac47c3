// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"testing"
	"time"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}

// Entity builds a reference record.
func Entity(id domain.ID, name, code string) domain.ReferenceEntity {
	return domain.ReferenceEntity{ID: id, Name: name, Code: code}
}

// TicketJSON is a ticket in the backend's wire shape, built fluently.
type TicketJSON map[string]any

// NewTicketJSON starts a one-way ticket owned by org.
func NewTicketJSON(id, org, airline int, price float64) TicketJSON {
	return TicketJSON{
		"id":           id,
		"organization": org,
		"airline":      airline,
		"adult_price":  price,
		"left_seats":   9,
		"trip_details": []map[string]any{},
		"stopovers":    []map[string]any{},
	}
}

// Leg appends a trip leg. tripType is "Departure" or "Return".
func (t TicketJSON) Leg(tripType string, from, to int, departure string) TicketJSON {
	legs := t["trip_details"].([]map[string]any)
	t["trip_details"] = append(legs, map[string]any{
		"trip_type":           tripType,
		"departure_city":      from,
		"arrival_city":        to,
		"departure_date_time": departure,
	})
	return t
}

// Stopover appends a stopover for the given trip direction.
func (t TicketJSON) Stopover(tripType string, city, minutes int) TicketJSON {
	stops := t["stopovers"].([]map[string]any)
	t["stopovers"] = append(stops, map[string]any{
		"trip_type":         tripType,
		"stopover_city":     city,
		"stopover_duration": minutes,
	})
	return t
}

// Set assigns any other wire field (e.g. "pnr", "reselling_allowed").
func (t TicketJSON) Set(key string, value any) TicketJSON {
	t[key] = value
	return t
}
