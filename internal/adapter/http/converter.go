package http

import (
	"time"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
)

// ToDomainQuery converts a validated ListTicketsRequest to a domain.Query.
// The travel date is interpreted as a calendar day in loc.
func ToDomainQuery(req *ListTicketsRequest, loc *time.Location) domain.Query {
	q := domain.Query{
		PNR:         req.PNR,
		Destination: req.Destination,
		Routes:      req.Routes,
		Airlines:    req.Airlines,
	}

	if req.Date != "" {
		if day, err := timeutil.ParseDate(req.Date, loc); err == nil {
			q.TravelDate = &day
		}
	}

	if len(req.Sort) > 0 {
		q.SortKeys = make([]domain.SortKey, 0, len(req.Sort))
		for _, s := range req.Sort {
			if key, ok := domain.ParseSortKey(s); ok {
				q.SortKeys = append(q.SortKeys, key)
			}
		}
	}

	return q
}

// ToListTicketsResponseDTO converts a domain ListResult to the API response.
func ToListTicketsResponseDTO(result *domain.ListResult) *ListTicketsResponseDTO {
	if result == nil {
		return nil
	}

	dto := &ListTicketsResponseDTO{
		Tickets: result.Tickets,
		Facets: FacetsDTO{
			Routes:   result.Facets.Routes,
			Airlines: result.Facets.Airlines,
		},
		Metadata: MetadataDTO{
			TotalResults: len(result.Tickets),
			Source:       result.Source,
			IsLoading:    result.IsLoading,
			Error:        result.Error,
		},
	}

	if dto.Tickets == nil {
		dto.Tickets = []domain.TicketView{}
	}
	if dto.Facets.Routes == nil {
		dto.Facets.Routes = []string{}
	}
	if dto.Facets.Airlines == nil {
		dto.Facets.Airlines = []string{}
	}
	return dto
}
