package domain

import (
	"fmt"
	"strings"
	"time"
)

// SortKey defines a sort criterion that can be activated on the ticket list.
type SortKey string

// Available sort keys.
const (
	// SortByAirline orders by resolved airline name ascending
	SortByAirline SortKey = "airline"

	// SortByPrice orders by adult price ascending
	SortByPrice SortKey = "price"

	// SortByDepartureDate orders by outbound departure ascending
	SortByDepartureDate SortKey = "departureDate"

	// SortByUmrahGroups puts umrah seats first
	SortByUmrahGroups SortKey = "umrahGroups"

	// SortByClosedBooking puts closed tickets first
	SortByClosedBooking SortKey = "closedBooking"

	// SortByTravelDatePassed puts tickets whose departure has passed last
	SortByTravelDatePassed SortKey = "travelDatePassed"

	// SortByDeleteHistory puts deleted tickets last
	SortByDeleteHistory SortKey = "deleteHistory"
)

// AllSortKeys lists every sort key in documentation order.
var AllSortKeys = []SortKey{
	SortByAirline,
	SortByPrice,
	SortByDepartureDate,
	SortByUmrahGroups,
	SortByClosedBooking,
	SortByTravelDatePassed,
	SortByDeleteHistory,
}

// IsValid checks if the sort key is a known value.
func (k SortKey) IsValid() bool {
	switch k {
	case SortByAirline, SortByPrice, SortByDepartureDate, SortByUmrahGroups,
		SortByClosedBooking, SortByTravelDatePassed, SortByDeleteHistory:
		return true
	default:
		return false
	}
}

// ParseSortKey converts a string to a SortKey, case-insensitively.
func ParseSortKey(s string) (SortKey, bool) {
	s = strings.TrimSpace(s)
	for _, k := range AllSortKeys {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// Query bundles the search predicates and sort keys of a listing request.
type Query struct {
	// PNR is a case-insensitive substring matched against booking references
	PNR string `json:"pnr,omitempty"`

	// Destination is a case-insensitive substring of the outbound arrival city name
	Destination string `json:"destination,omitempty"`

	// TravelDate restricts results to outbound departures on this calendar day
	TravelDate *time.Time `json:"travelDate,omitempty"`

	// Routes keeps only tickets whose route code is listed (empty = no filter)
	Routes []string `json:"routes,omitempty"`

	// Airlines keeps only tickets whose resolved airline name is listed (empty = no filter)
	Airlines []string `json:"airlines,omitempty"`

	// SortKeys are applied in activation order
	SortKeys []SortKey `json:"sortKeys,omitempty"`
}

// Validate checks the query for unknown sort keys.
func (q *Query) Validate() error {
	for _, k := range q.SortKeys {
		if !k.IsValid() {
			return fmt.Errorf("%w: unknown sort key %q", ErrInvalidRequest, k)
		}
	}
	return nil
}

// ActiveSortKeys returns the sort keys in activation order with repeats removed.
func (q *Query) ActiveSortKeys() []SortKey {
	seen := make(map[SortKey]struct{}, len(q.SortKeys))
	keys := make([]SortKey, 0, len(q.SortKeys))
	for _, k := range q.SortKeys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
