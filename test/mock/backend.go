// Package mock provides a fake inventory backend for integration tests.
package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

// Backend is an in-process REST backend serving tickets, airlines and cities
// under /api. It counts requests per path and can be made slow or failing.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	tickets  []map[string]any
	airlines map[domain.ID][]domain.ReferenceEntity
	cities   map[domain.ID][]domain.ReferenceEntity
	delay    time.Duration
	status   int
	body     string
	hits     map[string]int
	reqIDs   map[string]bool
}

// NewBackend starts a backend. Call Close when done.
func NewBackend() *Backend {
	b := &Backend{
		airlines: make(map[domain.ID][]domain.ReferenceEntity),
		cities:   make(map[domain.ID][]domain.ReferenceEntity),
		hits:     make(map[string]int),
		reqIDs:   make(map[string]bool),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	return b
}

// URL returns the API root to configure clients with.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// Close shuts the server down.
func (b *Backend) Close() {
	b.Server.Close()
}

// WithTickets replaces the ticket list. Tickets are raw JSON objects in the
// backend's wire shape.
func (b *Backend) WithTickets(tickets ...map[string]any) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets = tickets
	return b
}

// WithAirlines sets the airline table of an organization.
func (b *Backend) WithAirlines(orgID domain.ID, airlines ...domain.ReferenceEntity) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.airlines[orgID] = airlines
	return b
}

// WithCities sets the city table of an organization.
func (b *Backend) WithCities(orgID domain.ID, cities ...domain.ReferenceEntity) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cities[orgID] = cities
	return b
}

// WithDelay makes every response wait d first.
func (b *Backend) WithDelay(d time.Duration) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
	return b
}

// FailWith makes every request answer status with body. Status 0 restores
// normal service.
func (b *Backend) FailWith(status int, body string) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
	b.body = body
	return b
}

// Hits returns how many requests reached path (e.g. "/api/tickets/").
func (b *Backend) Hits(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[path]
}

// SawRequestID reports whether any request carried the given X-Request-ID.
func (b *Backend) SawRequestID(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reqIDs[id]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.hits[r.URL.Path]++
	if id := r.Header.Get("X-Request-ID"); id != "" {
		b.reqIDs[id] = true
	}
	delay, status, body := b.delay, b.status, b.body
	b.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		return
	}

	org := domain.ID(r.URL.Query().Get("organization"))
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api"), "/"), "/")

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case len(parts) == 1 && parts[0] == "tickets":
		writeJSON(w, http.StatusOK, map[string]any{"results": b.tickets})
	case len(parts) == 1:
		table, ok := b.table(parts[0])
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		writeJSON(w, http.StatusOK, listFor(table, org))
	case len(parts) == 2:
		table, ok := b.table(parts[0])
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		for _, e := range listFor(table, org) {
			if e.ID == domain.ID(parts[1]) {
				writeJSON(w, http.StatusOK, map[string]any{"data": e})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}
}

func (b *Backend) table(resource string) (map[domain.ID][]domain.ReferenceEntity, bool) {
	switch resource {
	case "airlines":
		return b.airlines, true
	case "cities":
		return b.cities, true
	default:
		return nil, false
	}
}

// listFor returns one organization's entities, or every organization's when
// org is empty.
func listFor(table map[domain.ID][]domain.ReferenceEntity, org domain.ID) []domain.ReferenceEntity {
	if org != "" {
		return append([]domain.ReferenceEntity{}, table[org]...)
	}
	var all []domain.ReferenceEntity
	for _, entities := range table {
		all = append(all, entities...)
	}
	return all
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
