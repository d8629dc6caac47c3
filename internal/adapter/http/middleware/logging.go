package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// quietPaths are polled by orchestrators and scrapers; successful calls to
// them are logged at debug level only.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RequestLogger returns middleware that logs one line per completed request,
// tagged with the request id and, on the API group, the viewer tenant.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			status := res.Status

			var event *zerolog.Event
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			case quietPaths[req.URL.Path]:
				event = log.Debug()
			default:
				event = log.Info()
			}

			if sess, ok := GetSession(c); ok {
				event = event.Str("organization_id", sess.OrganizationID.String())
			}

			// The route template keeps ids out of the path label
			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}

			event.
				Str("request_id", GetRequestID(c)).
				Str("method", req.Method).
				Str("route", route).
				Str("query", req.URL.RawQuery).
				Int("status", status).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("bytes_out", res.Size).
				Str("client_ip", c.RealIP()).
				Msg("HTTP request")

			return nil
		}
	}
}
