package usecase

import (
	"slices"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

// buildFacets collects the distinct route codes and airline names of rows,
// sorted ascending. Tickets with no airline do not contribute.
func buildFacets(rows []*row) domain.Facets {
	routes := make([]string, 0, len(rows))
	airlines := make([]string, 0, len(rows))

	for _, r := range rows {
		if r.ticket.Airline.IsUnset() {
			continue
		}
		if code := r.routeCode(); code != "" {
			routes = append(routes, code)
		}
		airlines = append(airlines, r.airlineName())
	}

	slices.Sort(routes)
	slices.Sort(airlines)
	return domain.Facets{
		Routes:   slices.Compact(routes),
		Airlines: slices.Compact(airlines),
	}
}
