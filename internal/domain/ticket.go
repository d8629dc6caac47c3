// Package domain contains the core entities and rules of the ticket inventory engine.
// These types are backend-agnostic: the REST adapter decodes into them and every
// other layer works on them.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is an entity identifier. The backend emits ids as JSON numbers or strings;
// both decode to the same ID.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	if data[0] == '{' {
		// Some endpoints expand the foreign key into {"id": ..., "name": ...}.
		var obj struct {
			ID ID `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = obj.ID
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// IsNumeric reports whether the id consists only of decimal digits.
func (id ID) IsNumeric() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseUint(string(id), 10, 64)
	return err == nil
}

// TripType identifies the direction of a trip leg or stopover.
type TripType string

// Known trip types.
const (
	TripDeparture TripType = "Departure"
	TripReturn    TripType = "Return"
)

// UnmarshalJSON normalizes the trip type case-insensitively.
// Unknown values decode to the empty trip type.
func (t *TripType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = ParseTripType(s)
	return nil
}

// ParseTripType converts a raw trip type to a TripType.
func ParseTripType(s string) TripType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "departure", "outbound", "onward":
		return TripDeparture
	case "return", "inbound":
		return TripReturn
	default:
		return ""
	}
}

// Ticket is an inventory unit for sale. It is created by backend ingestion and
// is read-only to this engine.
type Ticket struct {
	// ID is the backend identifier of the ticket
	ID ID `json:"id"`

	// OwnerOrganizationID is the tenant that created the ticket
	OwnerOrganizationID ID `json:"organization"`

	// Airline references the operating airline (id, inline record, or unset)
	Airline Ref `json:"airline"`

	// AdultPrice is the per-adult selling price
	AdultPrice float64 `json:"adult_price"`

	// LeftSeats is the number of seats still for sale
	LeftSeats int `json:"left_seats"`

	IsRefundable   bool `json:"is_refundable"`
	IsMealIncluded bool `json:"is_meal_included"`
	IsUmrahSeat    bool `json:"is_umrah_seat"`

	// ResellingAllowed exposes the ticket to other tenants
	ResellingAllowed bool `json:"reselling_allowed"`

	// IsClosed marks a ticket closed for booking
	IsClosed bool `json:"is_closed"`

	// IsDeleted marks an archived ticket kept for history
	IsDeleted bool `json:"is_deleted"`

	TripLegs  []TripLeg  `json:"trip_details"`
	Stopovers []Stopover `json:"stopovers"`

	// Booking reference candidates searched by PNR.
	PNR              string       `json:"pnr,omitempty"`
	PNRNumber        string       `json:"pnr_number,omitempty"`
	Reference        string       `json:"reference,omitempty"`
	BookingReference string       `json:"booking_reference,omitempty"`
	Code             string       `json:"code,omitempty"`
	BookingCode      string       `json:"booking_code,omitempty"`
	Booking          *BookingInfo `json:"booking,omitempty"`
	BookingDetails   *BookingInfo `json:"booking_details,omitempty"`
}

// BookingInfo is the nested booking object some backends attach to a ticket.
type BookingInfo struct {
	PNR              string `json:"pnr,omitempty"`
	PNRNumber        string `json:"pnr_number,omitempty"`
	Reference        string `json:"reference,omitempty"`
	BookingReference string `json:"booking_reference,omitempty"`
	Code             string `json:"code,omitempty"`
	BookingCode      string `json:"booking_code,omitempty"`
}

func (b *BookingInfo) candidates() []string {
	if b == nil {
		return nil
	}
	return []string{b.PNR, b.PNRNumber, b.Reference, b.BookingReference, b.Code, b.BookingCode}
}

// PNRCandidates returns every non-empty field that may hold a booking reference.
func (t *Ticket) PNRCandidates() []string {
	all := []string{t.PNR, t.PNRNumber, t.Reference, t.BookingReference, t.Code, t.BookingCode}
	all = append(all, t.Booking.candidates()...)
	all = append(all, t.BookingDetails.candidates()...)

	result := make([]string, 0, len(all))
	for _, c := range all {
		if strings.TrimSpace(c) != "" {
			result = append(result, c)
		}
	}
	return result
}

// HasLegs reports whether the ticket carries at least one trip leg.
func (t *Ticket) HasLegs() bool {
	return len(t.TripLegs) > 0
}

// Outbound returns the departure leg: the first leg explicitly typed as
// Departure, otherwise the first leg. Returns nil when there are no legs.
func (t *Ticket) Outbound() *TripLeg {
	for i := range t.TripLegs {
		if t.TripLegs[i].TripType == TripDeparture {
			return &t.TripLegs[i]
		}
	}
	if len(t.TripLegs) == 0 {
		return nil
	}
	return &t.TripLegs[0]
}

// Return returns the return leg, or nil for a one-way ticket.
// An untyped second leg counts as the return only on two-leg tickets.
func (t *Ticket) Return() *TripLeg {
	for i := range t.TripLegs {
		if t.TripLegs[i].TripType == TripReturn {
			return &t.TripLegs[i]
		}
	}
	if len(t.TripLegs) == 2 && t.TripLegs[1].TripType == "" && t.Outbound() == &t.TripLegs[0] {
		return &t.TripLegs[1]
	}
	return nil
}

// StopoverFor returns the stopover attached to the given trip direction.
// When no stopover carries a trip type, index 0 is the outbound stopover and
// index 1 the return stopover.
func (t *Ticket) StopoverFor(tripType TripType) *Stopover {
	typed := false
	for i := range t.Stopovers {
		if t.Stopovers[i].TripType == "" {
			continue
		}
		typed = true
		if t.Stopovers[i].TripType == tripType {
			return &t.Stopovers[i]
		}
	}
	if typed {
		return nil
	}

	idx := 0
	if tripType == TripReturn {
		idx = 1
	}
	if idx < len(t.Stopovers) {
		return &t.Stopovers[idx]
	}
	return nil
}

// TripLeg is one directional flight segment.
type TripLeg struct {
	TripType      TripType  `json:"trip_type"`
	DepartureCity Ref       `json:"departure_city"`
	ArrivalCity   Ref       `json:"arrival_city"`
	DepartureAt   Timestamp `json:"departure_date_time"`
	ArrivalAt     Timestamp `json:"arrival_date_time"`
	FlightNumber  string    `json:"flight_number,omitempty"`
}

// Stopover is an intermediate stop tied to a trip direction.
type Stopover struct {
	TripType     TripType         `json:"trip_type"`
	StopoverCity Ref              `json:"stopover_city"`
	Duration     StopoverDuration `json:"stopover_duration"`
	FlightNumber string           `json:"flight_number,omitempty"`
}

// Accepted leg timestamp layouts, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a leg time that tolerates the layouts the backend emits.
// The zero Timestamp means "absent".
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses a backend timestamp.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unable to parse datetime %q", s)
}

// UnmarshalJSON decodes a timestamp string. Unparseable values decode to the
// zero Timestamp rather than failing the whole ticket.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		*ts = Timestamp{}
		return nil
	}
	*ts = parsed
	return nil
}

// MarshalJSON encodes the timestamp as RFC3339, or null when absent.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339))
}

// UnixMilli returns the timestamp in epoch milliseconds, 0 when absent.
func (ts Timestamp) UnixMilli() int64 {
	if ts.IsZero() {
		return 0
	}
	return ts.Time.UnixMilli()
}

// StopoverDuration holds a stopover duration given either in minutes
// (number or numeric string) or as free text.
type StopoverDuration struct {
	Minutes int
	Text    string
}

// UnmarshalJSON accepts a number, a numeric string, free text or null.
func (d *StopoverDuration) UnmarshalJSON(data []byte) error {
	*d = StopoverDuration{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			d.Minutes = n
			return nil
		}
		d.Text = s
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil && f >= 0 {
		d.Minutes = int(f)
	}
	return nil
}

// MarshalJSON emits minutes as a number and free text as a string.
func (d StopoverDuration) MarshalJSON() ([]byte, error) {
	if d.Text != "" {
		return json.Marshal(d.Text)
	}
	if d.Minutes == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(d.Minutes)
}

// IsZero reports whether no duration was given.
func (d StopoverDuration) IsZero() bool {
	return d.Minutes == 0 && d.Text == ""
}

// Formatted renders the duration for display: "2h 30m", "2h", "45m", or the
// free text verbatim.
func (d StopoverDuration) Formatted() string {
	if d.Text != "" {
		return d.Text
	}
	if d.Minutes == 0 {
		return ""
	}

	hours := d.Minutes / 60
	mins := d.Minutes % 60
	switch {
	case hours > 0 && mins > 0:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(mins) + "m"
	case hours > 0:
		return strconv.Itoa(hours) + "h"
	default:
		return strconv.Itoa(mins) + "m"
	}
}
