// Package events consumes ticket change notifications from RabbitMQ and
// invalidates the affected tenant's cached inventory.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/retry"
)

// Routing key pattern the consumer queue is bound with.
const BindingKey = "ticket.*"

// Event types published by the inventory backend.
const (
	TypeTicketCreated = "ticket.created"
	TypeTicketUpdated = "ticket.updated"
	TypeTicketDeleted = "ticket.deleted"
	TypeTicketBooked  = "ticket.booked"
)

// TicketEvent is the payload of a ticket change notification.
type TicketEvent struct {
	Type           string    `json:"type"`
	OrganizationID domain.ID `json:"organization_id"`
	TicketID       domain.ID `json:"ticket_id,omitempty"`
}

// Invalidator forces a tenant's next listing to refresh.
// usecase.ListingUseCase implements it.
type Invalidator interface {
	Invalidate(ctx context.Context, orgID domain.ID) error
}

// Handler applies ticket events.
type Handler struct {
	invalidator Invalidator
	log         zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(inv Invalidator, log zerolog.Logger) *Handler {
	return &Handler{invalidator: inv, log: log}
}

// Handle decodes body and invalidates the tenant it names. Malformed
// payloads are reported as permanent errors.
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	ev, err := Decode(body)
	if err != nil {
		return retry.NewPermanent(err)
	}

	if err := h.invalidator.Invalidate(ctx, ev.OrganizationID); err != nil {
		return fmt.Errorf("invalidate after %s: %w", ev.Type, err)
	}

	h.log.Info().
		Str("type", ev.Type).
		Str("organization_id", ev.OrganizationID.String()).
		Str("ticket_id", ev.TicketID.String()).
		Msg("Ticket event applied")
	return nil
}

// Decode parses and validates an event payload.
func Decode(body []byte) (TicketEvent, error) {
	var ev TicketEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("decode ticket event: %w", err)
	}
	if !strings.HasPrefix(ev.Type, "ticket.") {
		return ev, fmt.Errorf("unexpected event type %q", ev.Type)
	}
	if ev.OrganizationID == "" {
		return ev, fmt.Errorf("%s event without organization_id", ev.Type)
	}
	return ev, nil
}
