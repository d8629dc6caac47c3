// Package integration provides helpers and integration tests for the ticket inventory service.
// Integration tests wire the real backend client, cache, resolver, listing use case
// and HTTP layer against an in-process fake backend.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/travel-backoffice/ticket-inventory/internal/adapter/backend"
	httpAdapter "github.com/travel-backoffice/ticket-inventory/internal/adapter/http"
	"github.com/travel-backoffice/ticket-inventory/internal/adapter/http/middleware"
	"github.com/travel-backoffice/ticket-inventory/internal/adapter/store"
	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/metrics"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
	"github.com/travel-backoffice/ticket-inventory/internal/inventory"
	"github.com/travel-backoffice/ticket-inventory/internal/resolver"
	"github.com/travel-backoffice/ticket-inventory/internal/usecase"
	"github.com/travel-backoffice/ticket-inventory/test/mock"
	"github.com/travel-backoffice/ticket-inventory/test/testutil"
)

// Tenants used across the integration tests.
const (
	viewerOrg = 7
	otherOrg  = 9
)

// Options tunes the stack built by NewTestServer.
type Options struct {
	// Store backs the inventory cache; a fresh in-memory store when nil
	Store domain.KeyValueStore

	// WaitTimeout bounds how long a listing waits on a refresh
	WaitTimeout time.Duration
}

// TestServer wraps an Echo instance wired to the full listing stack.
type TestServer struct {
	Echo    *echo.Echo
	UseCase usecase.ListingUseCase
	Metrics *metrics.Metrics
}

// NewTestServer builds the production wiring against backendURL.
func NewTestServer(t *testing.T, backendURL string, opts Options) *TestServer {
	t.Helper()

	kv := opts.Store
	if kv == nil {
		kv = store.NewMemory()
	}
	wait := opts.WaitTimeout
	if wait <= 0 {
		wait = 2 * time.Second
	}

	m := metrics.New()
	log := zerolog.Nop()

	client, err := backend.NewClient(backend.Config{
		BaseURL: backendURL,
		Timeout: 2 * time.Second,
		Logger:  log,
		Metrics: m,
	})
	require.NoError(t, err)

	clock := timeutil.NewRealClock()
	cache := inventory.NewCache(kv, inventory.DefaultCacheConfig(), clock, log, m)
	res := resolver.New(client, resolver.DefaultConfig(), clock, log, m)
	pipeline := usecase.NewPipeline(res, clock, time.UTC)
	uc := usecase.NewListingUseCase(cache, inventory.NewLoader(client, clock, log), pipeline, &usecase.Config{
		WaitTimeout:    wait,
		RefreshTimeout: 5 * time.Second,
	}, log, m)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.Setup(e, log)
	httpAdapter.RegisterRoutes(e, httpAdapter.NewTicketHandler(uc, time.UTC),
		middleware.Session(middleware.SessionConfig{}))

	return &TestServer{Echo: e, UseCase: uc, Metrics: m}
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a request as the given organization.
func (ts *TestServer) Do(method, path string, orgID int) Response {
	return ts.DoWithHeaders(method, path, orgID, nil)
}

// DoWithHeaders executes a request as the given organization with extra headers.
func (ts *TestServer) DoWithHeaders(method, path string, orgID int, headers http.Header) Response {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header[k] = v
	}
	if orgID != 0 {
		req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
		req.Header.Set(middleware.OrganizationHeader, strconv.Itoa(orgID))
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, req)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// List requests the ticket listing with an optional query string.
func (ts *TestServer) List(orgID int, query string) Response {
	path := "/api/v1/tickets"
	if query != "" {
		path += "?" + query
	}
	return ts.Do(http.MethodGet, path, orgID)
}

// Invalidate requests an inventory invalidation.
func (ts *TestServer) Invalidate(orgID int) Response {
	return ts.Do(http.MethodPost, "/api/v1/tickets/invalidate", orgID)
}

// ParseListing parses the response body as a listing.
func (r Response) ParseListing(t *testing.T) httpAdapter.ListTicketsResponseDTO {
	t.Helper()
	var resp httpAdapter.ListTicketsResponseDTO
	require.NoError(t, json.Unmarshal(r.Body, &resp), string(r.Body))
	return resp
}

// ParseError parses the response body to extract error information.
func (r Response) ParseError(t *testing.T) map[string]any {
	t.Helper()
	var errResp map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &errResp))
	return errResp
}

// NewMarketplace returns a backend holding:
//   - the viewer's own Lahore-Jeddah round trip on PIA (id 101, pnr PK7788)
//   - the viewer's own Lahore-Madinah one way on Saudia (id 102)
//   - a resellable Karachi-Jeddah ticket of another tenant on its airblue airline (id 201)
//   - a private ticket of another tenant (id 202), never visible to the viewer
func NewMarketplace(t *testing.T) *mock.Backend {
	t.Helper()

	b := mock.NewBackend().
		WithTickets(marketplaceTickets()...).
		WithAirlines(domain.ID(strconv.Itoa(viewerOrg)),
			testutil.Entity("3", "PIA", ""),
			testutil.Entity("5", "Saudia", ""),
		).
		WithCities(domain.ID(strconv.Itoa(viewerOrg)),
			testutil.Entity("1", "Lahore", "LHE"),
			testutil.Entity("2", "Jeddah", "JED"),
			testutil.Entity("6", "Madinah", "MED"),
			testutil.Entity("8", "Dubai", ""),
		).
		WithAirlines(domain.ID(strconv.Itoa(otherOrg)), testutil.Entity("20", "airblue", "")).
		WithCities(domain.ID(strconv.Itoa(otherOrg)), testutil.Entity("30", "Karachi", "KHI"))

	t.Cleanup(b.Close)
	return b
}

// marketplaceTickets returns the tickets served by NewMarketplace.
func marketplaceTickets() []map[string]any {
	return []map[string]any{
		testutil.NewTicketJSON(101, viewerOrg, 3, 185000).
			Leg("Departure", 1, 2, "2025-03-12T04:30:00Z").
			Leg("Return", 2, 1, "2025-03-26T04:30:00Z").
			Stopover("Departure", 8, 150).
			Set("pnr", "PK7788"),
		testutil.NewTicketJSON(102, viewerOrg, 5, 99000).
			Leg("Departure", 1, 6, "2025-04-02T10:00:00Z"),
		testutil.NewTicketJSON(201, otherOrg, 20, 120000).
			Leg("Departure", 30, 2, "2025-03-12T22:00:00Z").
			Set("reselling_allowed", true),
		testutil.NewTicketJSON(202, otherOrg, 20, 50000).
			Leg("Departure", 30, 2, "2025-03-13T22:00:00Z"),
	}
}
