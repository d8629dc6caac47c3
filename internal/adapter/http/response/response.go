// Package response provides standardized HTTP response builders for the ticket inventory API.
// It centralizes response formatting to ensure consistency across all endpoints.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorDetail contains structured error information.
type ErrorDetail struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific error details (for validation errors)
	Details map[string]string `json:"details,omitempty"`
}

// Error codes used in API responses.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeValidationError = "validation_error"
	CodeUnauthorized    = "unauthorized"
	CodeTimeout         = "timeout"
	CodeInternalError   = "internal_error"
)

// Error messages used in API responses.
const (
	MsgInvalidRequestBody = "Failed to parse request"
	MsgValidationFailed   = "Request validation failed"
	MsgMissingSession     = "A bearer token and an organization are required"
	MsgInvalidToken       = "The bearer token is invalid or expired"
	MsgTimeout            = "Request timed out"
	MsgRequestCancelled   = "Request was cancelled"
	MsgInternalError      = "An unexpected error occurred"
)

// OK writes a 200 OK response with the given data.
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// Accepted writes a 202 Accepted response with the given data.
func Accepted(c echo.Context, data any) error {
	return c.JSON(http.StatusAccepted, data)
}
