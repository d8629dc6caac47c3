package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
	"github.com/travel-backoffice/ticket-inventory/internal/resolver"
)

const (
	viewer domain.ID = "7"
	other  domain.ID = "9"
)

var (
	viewerSession = domain.Session{OrganizationID: viewer, Token: "tok"}
	now           = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
)

// codeTable is a CityCoder backed by a map of city id to code.
type codeTable map[domain.ID]string

func (c codeTable) CityCode(_ context.Context, req resolver.Request) string {
	return c[req.Ref.ID()]
}

// newTestPipeline builds a pipeline over a real resolver whose backend is a
// strict mock: any remote lookup not expected by the test fails it.
func newTestPipeline(t *testing.T) (*Pipeline, *domain.MockInventorySource) {
	t.Helper()
	ctrl := gomock.NewController(t)
	src := domain.NewMockInventorySource(ctrl)
	clock := timeutil.NewMockClock(now)
	res := resolver.New(src, resolver.DefaultConfig(), clock, zerolog.Nop(), nil)
	return NewPipeline(res, clock, time.UTC), src
}

func city(id domain.ID) domain.Ref {
	return domain.ByID(id)
}

func leg(tripType domain.TripType, from, to domain.ID, departure time.Time) domain.TripLeg {
	l := domain.TripLeg{
		TripType:      tripType,
		DepartureCity: city(from),
		ArrivalCity:   city(to),
	}
	if !departure.IsZero() {
		l.DepartureAt = domain.Timestamp{Time: departure}
	}
	return l
}

// ticket builds a visible one-way LHE->JED ticket owned by the viewer.
func ticket(id domain.ID, price float64, airline domain.ID) domain.Ticket {
	return domain.Ticket{
		ID:                  id,
		OwnerOrganizationID: viewer,
		Airline:             domain.ByID(airline),
		AdultPrice:          price,
		LeftSeats:           10,
		TripLegs: []domain.TripLeg{
			leg(domain.TripDeparture, "1", "2", now.Add(48*time.Hour)),
		},
	}
}

// testSnapshot holds the reference tables every pipeline test shares.
func testSnapshot(tickets ...domain.Ticket) *domain.Snapshot {
	return domain.NewSnapshot(
		tickets,
		[]domain.ReferenceEntity{
			{ID: "3", Name: "PIA", Logo: "pia.png"},
			{ID: "4", Name: "airblue"},
			{ID: "5", Name: "Saudia"},
		},
		[]domain.ReferenceEntity{
			{ID: "1", Name: "Lahore", Code: "LHE"},
			{ID: "2", Name: "Jeddah", Code: "JED"},
			{ID: "6", Name: "Madinah", Code: "MED"},
			{ID: "8", Name: "Dubai"},
		},
		now.Add(-time.Minute),
	)
}

func viewIDs(views []domain.TicketView) []domain.ID {
	out := make([]domain.ID, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}
