package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidRequest indicates a malformed listing query.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound indicates the backend has no entity with the requested id.
	ErrNotFound = errors.New("not found")

	// ErrMissingSession indicates the caller supplied no tenant or bearer token.
	ErrMissingSession = errors.New("missing session")

	// ErrMalformedResponse indicates a backend body of an unexpected shape.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// MsgNetworkFailure is shown when the backend cannot be reached at all.
const MsgNetworkFailure = "Unable to reach the inventory service. Check your connection and try again."

// LoadError describes a failed backend call. Message is human-readable and is
// what the listing surfaces to the user.
type LoadError struct {
	// Endpoint is the path that failed (e.g. "/tickets/")
	Endpoint string

	// StatusCode is the HTTP status, 0 for network-level failures
	StatusCode int

	// Message is drawn from the error body, or a generic network message
	Message string

	// Network is true when no HTTP response was received
	Network bool

	// Err is the underlying cause
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Network {
		return fmt.Sprintf("GET %s: network error: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a LoadError for a request that never got a response.
func NewNetworkError(endpoint string, err error) *LoadError {
	return &LoadError{
		Endpoint: endpoint,
		Message:  MsgNetworkFailure,
		Network:  true,
		Err:      err,
	}
}

// NewServerError creates a LoadError from a non-2xx response.
func NewServerError(endpoint string, status int, message string) *LoadError {
	var cause error
	if status == 404 {
		cause = ErrNotFound
	}
	return &LoadError{
		Endpoint:   endpoint,
		StatusCode: status,
		Message:    message,
		Err:        cause,
	}
}

// UserMessage extracts the message to show for a load failure.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var le *LoadError
	if errors.As(err, &le) && le.Message != "" {
		return le.Message
	}
	return "Failed to load tickets."
}
