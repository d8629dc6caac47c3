package integration

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/test/testutil"
)

// TestConcurrent_RequestsShareOneRefresh verifies that concurrent listings of
// one tenant trigger a single backend load.
func TestConcurrent_RequestsShareOneRefresh(t *testing.T) {
	// Arrange
	b := NewMarketplace(t)
	b.WithDelay(50 * time.Millisecond) // Small delay to increase overlap
	ts := NewTestServer(t, b.URL(), Options{})

	numRequests := 10
	var wg sync.WaitGroup
	results := make([]Response, numRequests)

	// Act
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = ts.List(viewerOrg, "")
		}(i)
	}
	wg.Wait()

	// Assert
	for i, resp := range results {
		require.Equal(t, http.StatusOK, resp.Code, "request %d should succeed", i)
		assert.Len(t, resp.ParseListing(t).Tickets, 3, "request %d", i)
	}
	assert.Equal(t, 1, b.Hits("/api/tickets/"))
}

// TestConcurrent_TenantsRefreshIndependently verifies that each tenant gets its
// own refresh and its own results.
func TestConcurrent_TenantsRefreshIndependently(t *testing.T) {
	b := NewMarketplace(t)
	b.WithDelay(20 * time.Millisecond)
	ts := NewTestServer(t, b.URL(), Options{})

	var wg sync.WaitGroup
	var viewer, other Response
	wg.Add(2)
	go func() {
		defer wg.Done()
		viewer = ts.List(viewerOrg, "")
	}()
	go func() {
		defer wg.Done()
		other = ts.List(otherOrg, "")
	}()
	wg.Wait()

	assert.Equal(t, []domain.ID{"101", "102", "201"}, ticketIDs(viewer.ParseListing(t).Tickets))
	assert.Equal(t, []domain.ID{"201", "202"}, ticketIDs(other.ParseListing(t).Tickets))
	assert.Equal(t, 2, b.Hits("/api/tickets/"))
}

// TestConcurrent_SlowRefreshServesStaleThenCompletes verifies that a refresh
// slower than the wait bound leaves the previous snapshot on screen and still
// fills the cache.
func TestConcurrent_SlowRefreshServesStaleThenCompletes(t *testing.T) {
	b := NewMarketplace(t)
	ts := NewTestServer(t, b.URL(), Options{WaitTimeout: 50 * time.Millisecond})

	require.Equal(t, http.StatusOK, ts.List(viewerOrg, "").Code)
	require.Equal(t, http.StatusAccepted, ts.Invalidate(viewerOrg).Code)

	b.WithDelay(300 * time.Millisecond)
	slow := ts.List(viewerOrg, "").ParseListing(t)

	assert.True(t, slow.Metadata.IsLoading)
	assert.Equal(t, domain.SourceStale, slow.Metadata.Source)
	assert.Len(t, slow.Tickets, 3)

	// The running refresh reads the ticket list after its delay
	b.WithTickets(append(marketplaceTickets(), testutil.NewTicketJSON(103, viewerOrg, 3, 70000).
		Leg("Departure", 1, 2, "2025-05-01T04:30:00Z"))...)

	assert.Eventually(t, func() bool {
		return len(ts.List(viewerOrg, "").ParseListing(t).Tickets) == 4
	}, 2*time.Second, 50*time.Millisecond)
	assert.Equal(t, 2, b.Hits("/api/tickets/"))
}
