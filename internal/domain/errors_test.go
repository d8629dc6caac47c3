package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadError(t *testing.T) {
	tests := []struct {
		name         string
		err          *LoadError
		wantContains []string
		wantNotFound bool
	}{
		{
			name:         "network error",
			err:          NewNetworkError("/tickets/", errors.New("connection refused")),
			wantContains: []string{"/tickets/", "network error", "connection refused"},
		},
		{
			name:         "server error",
			err:          NewServerError("/airlines/3/", 500, "Database unavailable"),
			wantContains: []string{"/airlines/3/", "500", "Database unavailable"},
		},
		{
			name:         "not found wraps ErrNotFound",
			err:          NewServerError("/cities/9/", 404, "Not found."),
			wantContains: []string{"404"},
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.wantContains {
				assert.Contains(t, tt.err.Error(), want)
			}
			assert.Equal(t, tt.wantNotFound, errors.Is(tt.err, ErrNotFound))
		})
	}
}

func TestNewNetworkError_UsesGenericMessage(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewNetworkError("/tickets/", cause)

	assert.True(t, err.Network)
	assert.Zero(t, err.StatusCode)
	assert.Equal(t, MsgNetworkFailure, err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"server message", NewServerError("/tickets/", 403, "You do not have permission."), "You do not have permission."},
		{"wrapped load error", fmt.Errorf("load tickets: %w", NewServerError("/tickets/", 500, "Boom")), "Boom"},
		{"network", NewNetworkError("/tickets/", errors.New("x")), MsgNetworkFailure},
		{"load error without message", NewServerError("/tickets/", 502, ""), "Failed to load tickets."},
		{"plain error", errors.New("something else"), "Failed to load tickets."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
