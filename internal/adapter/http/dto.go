package http

import "github.com/travel-backoffice/ticket-inventory/internal/domain"

// ListTicketsResponseDTO is the body of GET /api/v1/tickets.
type ListTicketsResponseDTO struct {
	Tickets  []domain.TicketView `json:"tickets"`
	Facets   FacetsDTO           `json:"facets"`
	Metadata MetadataDTO         `json:"metadata"`
}

// FacetsDTO lists the filter values available across the visible inventory.
type FacetsDTO struct {
	Routes   []string `json:"routes"`
	Airlines []string `json:"airlines"`
}

// MetadataDTO describes where the listing came from.
type MetadataDTO struct {
	TotalResults int    `json:"totalResults"`
	Source       string `json:"source"`
	IsLoading    bool   `json:"isLoading"`
	Error        string `json:"error,omitempty"`
}
