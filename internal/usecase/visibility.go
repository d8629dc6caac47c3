package usecase

import "github.com/travel-backoffice/ticket-inventory/internal/domain"

// IsVisible reports whether the viewer may see the ticket: its own tickets,
// and other tenants' tickets that are open for reselling.
func IsVisible(t *domain.Ticket, viewer domain.ID) bool {
	return t.OwnerOrganizationID == viewer || t.ResellingAllowed
}
