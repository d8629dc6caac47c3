package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health writes a health check response.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status: "ok",
	})
}

// StatusResponse acknowledges an accepted command.
type StatusResponse struct {
	Status string `json:"status"`
}

// InvalidationAccepted writes a 202 Accepted response for a cache invalidation.
func InvalidationAccepted(c echo.Context) error {
	return Accepted(c, &StatusResponse{Status: "accepted"})
}
