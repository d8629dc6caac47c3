package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all ticket inventory API routes.
// The versioned API group is wrapped in the given middleware (the session
// middleware in production); /health is left open.
func RegisterRoutes(e *echo.Echo, h *TicketHandler, middleware ...echo.MiddlewareFunc) {
	// Health check endpoint (no version prefix, no middleware)
	e.GET("/health", h.Health)

	api := e.Group("/api/v1", middleware...)

	tickets := api.Group("/tickets")
	tickets.GET("", h.ListTickets)
	tickets.POST("/invalidate", h.InvalidateTickets)
}
