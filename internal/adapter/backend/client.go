// Package backend implements domain.InventorySource over the back-office REST API.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/logger"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/metrics"
)

// RequestIDHeader correlates backend calls with the request that caused them.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds a single backend request when none is configured.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root, e.g. "https://backoffice.example.com/api"
	BaseURL string

	// Timeout bounds each request
	Timeout time.Duration

	// HTTPClient is used for all requests. If nil, a client with no timeout
	// of its own is created (Timeout is enforced through the context).
	HTTPClient *http.Client

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// Client talks to the REST backend. Every call carries the session's bearer
// token. Requests are never retried here: a failed load is surfaced to the
// user, who decides whether to try again.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        zerolog.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a backend client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("backend: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
	}, nil
}

// ListTickets implements domain.InventorySource.
func (c *Client) ListTickets(ctx context.Context, sess domain.Session) ([]domain.Ticket, error) {
	body, err := c.get(ctx, sess, "tickets", "/tickets/", sess.OrganizationID)
	if err != nil {
		return nil, err
	}

	var tickets []domain.Ticket
	if err := decodeList(body, &tickets); err != nil {
		return nil, &domain.LoadError{Endpoint: "/tickets/", StatusCode: http.StatusOK, Message: "Received an unexpected ticket list from the server.", Err: err}
	}
	return tickets, nil
}

// ListReferences implements domain.InventorySource.
func (c *Client) ListReferences(ctx context.Context, sess domain.Session, kind domain.ReferenceKind, orgID domain.ID) ([]domain.ReferenceEntity, error) {
	endpoint := "/" + kind.Path() + "/"
	body, err := c.get(ctx, sess, kind.Path(), endpoint, orgID)
	if err != nil {
		return nil, err
	}

	var entities []domain.ReferenceEntity
	if err := decodeList(body, &entities); err != nil {
		return nil, &domain.LoadError{Endpoint: endpoint, StatusCode: http.StatusOK, Message: "Received an unexpected " + string(kind) + " list from the server.", Err: err}
	}
	return entities, nil
}

// GetReference implements domain.InventorySource.
func (c *Client) GetReference(ctx context.Context, sess domain.Session, kind domain.ReferenceKind, id, orgID domain.ID) (domain.ReferenceEntity, error) {
	if id == "" {
		return domain.ReferenceEntity{}, fmt.Errorf("get %s: empty id: %w", kind, domain.ErrNotFound)
	}

	endpoint := "/" + kind.Path() + "/" + url.PathEscape(id.String()) + "/"
	body, err := c.get(ctx, sess, string(kind), endpoint, orgID)
	if err != nil {
		return domain.ReferenceEntity{}, err
	}

	var entity domain.ReferenceEntity
	if err := decodeOne(body, &entity); err != nil {
		return domain.ReferenceEntity{}, err
	}
	if entity.ID == "" {
		entity.ID = id
	}
	return entity, nil
}

// get performs an authenticated GET and returns the body of a 2xx response.
// orgID, when non-empty, is sent as the organization query parameter.
func (c *Client) get(ctx context.Context, sess domain.Session, resource, endpoint string, orgID domain.ID) ([]byte, error) {
	if sess.Token == "" {
		return nil, fmt.Errorf("GET %s: %w", endpoint, domain.ErrMissingSession)
	}

	reqURL := c.baseURL + endpoint
	if orgID != "" {
		reqURL += "?" + url.Values{"organization": {orgID.String()}}.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("GET %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Accept", "application/json")
	if id := logger.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	log := logger.FromContext(ctx, c.log)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.BackendRequest(resource, "network_error", time.Since(start))
		log.Debug().Err(err).Str("endpoint", endpoint).Msg("Backend request failed")
		return nil, domain.NewNetworkError(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.BackendRequest(resource, "network_error", elapsed)
		return nil, domain.NewNetworkError(endpoint, fmt.Errorf("read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.BackendRequest(resource, outcomeForStatus(resp.StatusCode), elapsed)
		loadErr := domain.NewServerError(endpoint, resp.StatusCode, errorMessage(resp.StatusCode, body))
		log.Debug().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("message", loadErr.Message).
			Msg("Backend returned an error")
		return nil, loadErr
	}

	c.metrics.BackendRequest(resource, "ok", elapsed)
	log.Debug().
		Str("endpoint", endpoint).
		Str("organization", orgID.String()).
		Dur("elapsed", elapsed).
		Msg("Backend request completed")
	return body, nil
}

func outcomeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status >= 500:
		return "server_error"
	default:
		return "client_error"
	}
}

var _ domain.InventorySource = (*Client)(nil)
