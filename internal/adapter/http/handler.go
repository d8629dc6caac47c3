package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/travel-backoffice/ticket-inventory/internal/adapter/http/middleware"
	"github.com/travel-backoffice/ticket-inventory/internal/adapter/http/response"
	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/usecase"
)

// TicketHandler handles HTTP requests for ticket inventory endpoints.
type TicketHandler struct {
	useCase  usecase.ListingUseCase
	location *time.Location
}

// NewTicketHandler creates a new TicketHandler. Travel dates in queries are
// read as calendar days in loc (UTC when nil).
func NewTicketHandler(uc usecase.ListingUseCase, loc *time.Location) *TicketHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TicketHandler{
		useCase:  uc,
		location: loc,
	}
}

// ListTickets handles GET /api/v1/tickets
//
// @Summary List tickets
// @Description Lists the viewer's own tickets and other tenants' resellable tickets, filtered and sorted.
// @Description Backend failures are reported in metadata.error with status 200.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param X-Organization-ID header string false "Viewer tenant (when tokens are opaque)"
// @Param pnr query string false "Booking reference fragment"
// @Param destination query string false "Outbound arrival city fragment"
// @Param date query string false "Outbound travel date (YYYY-MM-DD)"
// @Param routes query []string false "Route codes" collectionFormat(multi)
// @Param airlines query []string false "Airline names" collectionFormat(multi)
// @Param sort query []string false "Sort keys in activation order" collectionFormat(multi)
// @Success 200 {object} SwaggerListTicketsResponse
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 401 {object} response.ErrorDetail "Missing or invalid session"
// @Failure 504 {object} response.ErrorDetail "Request cancelled"
// @Router /api/v1/tickets [get]
func (h *TicketHandler) ListTickets(c echo.Context) error {
	sess, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, response.MsgMissingSession)
	}

	var req ListTicketsRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	query := ToDomainQuery(&req, h.location)

	result, err := h.useCase.ListTickets(c.Request().Context(), sess, query)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToListTicketsResponseDTO(result))
}

// InvalidateTickets handles POST /api/v1/tickets/invalidate
//
// @Summary Invalidate the viewer's inventory
// @Description Forces the next listing of the viewer's tenant to reload from the backend.
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param X-Organization-ID header string false "Viewer tenant (when tokens are opaque)"
// @Success 202 {object} response.StatusResponse
// @Failure 401 {object} response.ErrorDetail "Missing or invalid session"
// @Failure 500 {object} response.ErrorDetail "Cache store failure"
// @Router /api/v1/tickets/invalidate [post]
func (h *TicketHandler) InvalidateTickets(c echo.Context) error {
	sess, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, response.MsgMissingSession)
	}

	if err := h.useCase.Invalidate(c.Request().Context(), sess.OrganizationID); err != nil {
		return h.handleError(c, err)
	}

	return response.InvalidationAccepted(c)
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *TicketHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *TicketHandler) handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrMissingSession):
		return response.Unauthorized(c, response.MsgMissingSession)
	case errors.Is(err, domain.ErrInvalidRequest):
		return response.ValidationErrorWithMessage(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return response.GatewayTimeout(c)
	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)
	default:
		return response.InternalServerError(c)
	}
}

// Health handles GET /health
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router /health [get]
func (h *TicketHandler) Health(c echo.Context) error {
	return response.Health(c)
}
