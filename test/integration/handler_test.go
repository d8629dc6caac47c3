package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

func ticketIDs(tickets []domain.TicketView) []domain.ID {
	ids := make([]domain.ID, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	return ids
}

func TestListing_ResolvesOwnAndResellableInventory(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	resp := ts.List(viewerOrg, "")

	require.Equal(t, http.StatusOK, resp.Code)
	listing := resp.ParseListing(t)
	assert.Equal(t, domain.SourceBackend, listing.Metadata.Source)
	assert.Empty(t, listing.Metadata.Error)
	assert.Equal(t, []domain.ID{"101", "102", "201"}, ticketIDs(listing.Tickets))

	own := listing.Tickets[0]
	assert.Equal(t, "PIA", own.AirlineName)
	assert.Equal(t, "LHE-JED-LHE", own.RouteCode)
	assert.Equal(t, "PK7788", own.PNR)
	require.NotNil(t, own.Outbound)
	assert.Equal(t, "Lahore", own.Outbound.DepartureCity)
	require.NotNil(t, own.Outbound.Stopover)
	assert.Equal(t, "Dubai", own.Outbound.Stopover.City)
	require.NotNil(t, own.Return)
	assert.Equal(t, "Jeddah", own.Return.DepartureCity)

	foreign := listing.Tickets[2]
	assert.Equal(t, "airblue", foreign.AirlineName, "resolved from the owner's airline table")
	assert.Equal(t, "KHI-JED", foreign.RouteCode)
	assert.Equal(t, "Karachi", foreign.Outbound.DepartureCity)

	assert.Equal(t, []string{"KHI-JED", "LHE-JED-LHE", "LHE-MED"}, listing.Facets.Routes)
	assert.Equal(t, []string{"PIA", "Saudia", "airblue"}, listing.Facets.Airlines)
}

func TestListing_ServesCacheOnSecondRequest(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	first := ts.List(viewerOrg, "")
	require.Equal(t, http.StatusOK, first.Code)
	airlineLookups := b.Hits("/api/airlines/20/")

	second := ts.List(viewerOrg, "sort=price")

	require.Equal(t, http.StatusOK, second.Code)
	listing := second.ParseListing(t)
	assert.Equal(t, domain.SourceCache, listing.Metadata.Source)
	assert.Equal(t, []domain.ID{"102", "201", "101"}, ticketIDs(listing.Tickets))
	assert.Equal(t, 1, b.Hits("/api/tickets/"))
	assert.Equal(t, airlineLookups, b.Hits("/api/airlines/20/"), "resolved names are remembered")
}

func TestListing_Filters(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	tests := []struct {
		name  string
		query string
		want  []domain.ID
	}{
		{"pnr fragment", "pnr=pk77", []domain.ID{"101"}},
		{"destination fragment", "destination=jed", []domain.ID{"101", "201"}},
		{"travel date", "date=2025-03-12", []domain.ID{"101", "201"}},
		{"route", "routes=LHE-MED,KHI-JED", []domain.ID{"102", "201"}},
		{"airline", "airlines=airblue", []domain.ID{"201"}},
		{"combined", "destination=jed&airlines=PIA", []domain.ID{"101"}},
		{"no match", "pnr=nothing", []domain.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.List(viewerOrg, tt.query)

			require.Equal(t, http.StatusOK, resp.Code)
			listing := resp.ParseListing(t)
			assert.Equal(t, tt.want, ticketIDs(listing.Tickets))
			assert.Len(t, listing.Facets.Routes, 3, "facets ignore filters")
		})
	}
}

func TestListing_TenantsSeeDifferentInventory(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	resp := ts.List(otherOrg, "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []domain.ID{"201", "202"}, ticketIDs(resp.ParseListing(t).Tickets))
}

func TestListing_BackendFailureIsReported(t *testing.T) {
	b := NewMarketplace(t)
	b.FailWith(http.StatusInternalServerError, `{"detail":"Database unavailable"}`)
	ts := NewTestServer(t, b.URL(), Options{})

	resp := ts.List(viewerOrg, "")

	require.Equal(t, http.StatusOK, resp.Code)
	listing := resp.ParseListing(t)
	assert.Equal(t, domain.SourceEmpty, listing.Metadata.Source)
	assert.Equal(t, "Database unavailable", listing.Metadata.Error)
	assert.Empty(t, listing.Tickets)
}

func TestListing_InvalidateThenFailureServesStale(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	require.Equal(t, http.StatusOK, ts.List(viewerOrg, "").Code)
	require.Equal(t, http.StatusAccepted, ts.Invalidate(viewerOrg).Code)

	b.FailWith(http.StatusServiceUnavailable, `{"message":"Maintenance in progress"}`)
	resp := ts.List(viewerOrg, "")

	require.Equal(t, http.StatusOK, resp.Code)
	listing := resp.ParseListing(t)
	assert.Equal(t, domain.SourceStale, listing.Metadata.Source)
	assert.Equal(t, "Maintenance in progress", listing.Metadata.Error)
	assert.Len(t, listing.Tickets, 3)
	assert.Equal(t, 2, b.Hits("/api/tickets/"))
}

func TestListing_InvalidateForcesReload(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	require.Equal(t, http.StatusOK, ts.List(viewerOrg, "").Code)
	require.Equal(t, http.StatusAccepted, ts.Invalidate(viewerOrg).Code)

	reloaded := ts.List(viewerOrg, "").ParseListing(t)
	cached := ts.List(viewerOrg, "").ParseListing(t)

	assert.Equal(t, domain.SourceBackend, reloaded.Metadata.Source)
	assert.Equal(t, domain.SourceCache, cached.Metadata.Source)
	assert.Equal(t, 2, b.Hits("/api/tickets/"))
}

func TestListing_RequiresSession(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	resp := ts.List(0, "")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "unauthorized", resp.ParseError(t)["code"])
	assert.Zero(t, b.Hits("/api/tickets/"))
}

func TestListing_InvalidQuery(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	resp := ts.List(viewerOrg, "sort=rating")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, b.Hits("/api/tickets/"))
}

func TestHealth(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	resp := ts.Do(http.MethodGet, "/health", 0)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Headers.Get("X-Request-ID"))
}

func TestRequestIDReachesBackend(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{})

	resp := ts.DoWithHeaders(http.MethodGet, "/api/v1/tickets", viewerOrg, http.Header{
		"X-Request-Id": {"trace-7f3a"},
	})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "trace-7f3a", resp.Headers.Get("X-Request-ID"))
	assert.True(t, b.SawRequestID("trace-7f3a"), "snapshot and reference fetches carry the caller's id")
}
