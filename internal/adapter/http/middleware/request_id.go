package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/logger"
)

const (
	// RequestIDHeader carries the correlation id in and out of the service
	// and on every backend call made for the request.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"

	maxRequestIDLen = 128
)

// RequestID returns middleware that assigns each request a correlation id.
// A well-formed incoming X-Request-ID is kept; anything else is replaced with
// a fresh UUID, since the id is forwarded verbatim to the backend. The id is
// echoed in the response and stored both on the echo context and on the
// request context, where the backend client and the engine's loggers read it.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqID := req.Header.Get(RequestIDHeader)
			if !validRequestID(reqID) {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey, reqID)
			c.SetRequest(req.WithContext(logger.ContextWithRequestID(req.Context(), reqID)))
			c.Response().Header().Set(RequestIDHeader, reqID)

			return next(c)
		}
	}
}

// GetRequestID retrieves the request id from the echo context, or "".
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// validRequestID accepts non-empty ids of visible ASCII only.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}
