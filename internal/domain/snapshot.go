package domain

import (
	"errors"
	"time"
)

// Reasons a stored snapshot is not served.
var (
	ErrSnapshotEmpty   = errors.New("snapshot has no tickets")
	ErrSnapshotExpired = errors.New("snapshot expired")
)

// Snapshot is the cached view of a tenant's inventory: the raw tickets plus the
// reference tables needed to display them. A snapshot is replaced wholesale on
// every refresh and never partially mutated.
type Snapshot struct {
	Tickets    []Ticket               `json:"tickets"`
	Airlines   map[ID]ReferenceEntity `json:"airlines"`
	Cities     map[ID]ReferenceEntity `json:"cities"`
	CityCodes  map[ID]string          `json:"city_codes"`
	CapturedAt time.Time              `json:"captured_at"`
}

// NewSnapshot builds a snapshot from freshly fetched lists, deriving the
// id-keyed tables.
func NewSnapshot(tickets []Ticket, airlines, cities []ReferenceEntity, capturedAt time.Time) *Snapshot {
	s := &Snapshot{
		Tickets:    tickets,
		Airlines:   make(map[ID]ReferenceEntity, len(airlines)),
		Cities:     make(map[ID]ReferenceEntity, len(cities)),
		CityCodes:  make(map[ID]string, len(cities)),
		CapturedAt: capturedAt,
	}
	if s.Tickets == nil {
		s.Tickets = []Ticket{}
	}
	for _, a := range airlines {
		if a.ID != "" {
			s.Airlines[a.ID] = a
		}
	}
	for _, c := range cities {
		if c.ID == "" {
			continue
		}
		s.Cities[c.ID] = c
		if c.Code != "" {
			s.CityCodes[c.ID] = c.Code
		}
	}
	return s
}

// CheckUsable returns nil when the snapshot may be served at time now, or the
// reason it may not. A snapshot with zero tickets is indistinguishable from a
// failed write and is never trusted. An age equal to ttl is already stale.
func (s *Snapshot) CheckUsable(now time.Time, ttl time.Duration) error {
	if s == nil || len(s.Tickets) == 0 {
		return ErrSnapshotEmpty
	}
	if now.Sub(s.CapturedAt) >= ttl {
		return ErrSnapshotExpired
	}
	return nil
}

// Table returns the local reference table for a kind.
func (s *Snapshot) Table(kind ReferenceKind) map[ID]ReferenceEntity {
	if s == nil {
		return nil
	}
	switch kind {
	case KindAirline:
		return s.Airlines
	case KindCity:
		return s.Cities
	default:
		return nil
	}
}
