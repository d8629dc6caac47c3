package usecase

import (
	"cmp"
	"sort"
	"strings"
	"time"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

// sortRows orders rows by keys in activation order. Each key breaks ties left
// by the ones before it, and tickets equal on every key keep their input order.
// Behavior per key:
//   - airline: resolved name ascending, case-insensitive
//   - price: adult price ascending
//   - departureDate: outbound departure ascending, absent departures first
//   - umrahGroups: umrah seats first
//   - closedBooking: closed tickets first
//   - travelDatePassed: departures before now last
//   - deleteHistory: deleted tickets last
func sortRows(rows []*row, keys []domain.SortKey, now time.Time) {
	if len(keys) == 0 || len(rows) < 2 {
		return
	}
	nowMilli := now.UnixMilli()

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			if c := compareBy(k, rows[i], rows[j], nowMilli); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func compareBy(key domain.SortKey, a, b *row, nowMilli int64) int {
	switch key {
	case domain.SortByAirline:
		return strings.Compare(strings.ToLower(a.airlineName()), strings.ToLower(b.airlineName()))
	case domain.SortByPrice:
		return cmp.Compare(a.ticket.AdultPrice, b.ticket.AdultPrice)
	case domain.SortByDepartureDate:
		return cmp.Compare(departureMilli(a.ticket), departureMilli(b.ticket))
	case domain.SortByUmrahGroups:
		return trueFirst(a.ticket.IsUmrahSeat, b.ticket.IsUmrahSeat)
	case domain.SortByClosedBooking:
		return trueFirst(a.ticket.IsClosed, b.ticket.IsClosed)
	case domain.SortByTravelDatePassed:
		return -trueFirst(departureMilli(a.ticket) < nowMilli, departureMilli(b.ticket) < nowMilli)
	case domain.SortByDeleteHistory:
		return -trueFirst(a.ticket.IsDeleted, b.ticket.IsDeleted)
	default:
		return 0
	}
}

// departureMilli is the outbound departure in epoch milliseconds, 0 when absent.
func departureMilli(t *domain.Ticket) int64 {
	if out := t.Outbound(); out != nil {
		return out.DepartureAt.UnixMilli()
	}
	return 0
}

func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
