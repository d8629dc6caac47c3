package usecase

import (
	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

// view renders a row for display.
func (r *row) view() domain.TicketView {
	t := r.ticket
	v := domain.TicketView{
		ID:                  t.ID,
		OwnerOrganizationID: t.OwnerOrganizationID,
		AirlineName:         r.airlineName(),
		RouteCode:           r.routeCode(),
		AdultPrice:          t.AdultPrice,
		LeftSeats:           t.LeftSeats,
		IsRefundable:        t.IsRefundable,
		IsMealIncluded:      t.IsMealIncluded,
		IsUmrahSeat:         t.IsUmrahSeat,
		IsClosed:            t.IsClosed,
		IsDeleted:           t.IsDeleted,
		ResellingAllowed:    t.ResellingAllowed,
	}

	if e, ok := r.res.Entity(r.ctx, domain.KindAirline, r.request(t.OwnerOrganizationID, t.Airline)); ok {
		v.AirlineLogo = e.Logo
	}
	if pnrs := t.PNRCandidates(); len(pnrs) > 0 {
		v.PNR = pnrs[0]
	}
	if out := t.Outbound(); out != nil {
		v.Outbound = r.legView(out, t.StopoverFor(domain.TripDeparture))
	}
	if ret := t.Return(); ret != nil {
		v.Return = r.legView(ret, t.StopoverFor(domain.TripReturn))
	}
	return v
}

func (r *row) legView(leg *domain.TripLeg, stop *domain.Stopover) *domain.LegView {
	owner := r.ticket.OwnerOrganizationID
	lv := &domain.LegView{
		DepartureCity:     r.city(owner, leg.DepartureCity),
		DepartureCityCode: r.cityCode(owner, leg.DepartureCity),
		ArrivalCity:       r.city(owner, leg.ArrivalCity),
		ArrivalCityCode:   r.cityCode(owner, leg.ArrivalCity),
		DepartureAt:       leg.DepartureAt,
		ArrivalAt:         leg.ArrivalAt,
		FlightNumber:      leg.FlightNumber,
	}
	if stop != nil && !stop.StopoverCity.IsUnset() {
		lv.Stopover = &domain.StopoverView{
			City:         r.city(owner, stop.StopoverCity),
			Duration:     stop.Duration.Formatted(),
			FlightNumber: stop.FlightNumber,
		}
	}
	return lv
}
