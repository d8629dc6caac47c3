package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
	"github.com/travel-backoffice/ticket-inventory/internal/resolver"
)

// Pipeline runs a listing query over a tenant snapshot.
//
// Stages run in a fixed order:
//  1. tickets without trip legs are dropped
//  2. visibility (own tickets or reselling allowed)
//  3. PNR substring over every booking reference field
//  4. destination substring on the resolved outbound arrival city
//  5. travel date, same calendar day as the outbound departure
//  6. route code membership
//  7. airline name membership
//  8. multi-key sort
type Pipeline struct {
	resolver ReferenceResolver
	clock    timeutil.Clock
	location *time.Location
}

// NewPipeline creates a pipeline. Travel dates are compared in loc (UTC when nil).
func NewPipeline(res ReferenceResolver, clock timeutil.Clock, loc *time.Location) *Pipeline {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{resolver: res, clock: clock, location: loc}
}

// Listing is the outcome of one pipeline pass.
type Listing struct {
	// Tickets match the query, in display order
	Tickets []domain.TicketView

	// Facets cover every visible ticket, whatever the query
	Facets domain.Facets
}

// List runs q over snap. Facets and tickets share the same rows, so each
// reference is resolved once per pass.
func (p *Pipeline) List(ctx context.Context, sess domain.Session, snap *domain.Snapshot, q domain.Query) Listing {
	rows := p.visible(p.scope(ctx, sess, snap), snap)

	// Facets first: filtering narrows rows in place
	facets := buildFacets(rows)
	rows = p.run(rows, q)

	views := make([]domain.TicketView, len(rows))
	for i, r := range rows {
		views[i] = r.view()
	}
	return Listing{Tickets: views, Facets: facets}
}

// Prewarm resolves, in bulk, every reference the visible tickets of snap will
// need during the run.
func (p *Pipeline) Prewarm(ctx context.Context, sess domain.Session, snap *domain.Snapshot) int {
	s := p.scope(ctx, sess, snap)

	var lookups []resolver.Lookup
	add := func(kind domain.ReferenceKind, owner domain.ID, ref domain.Ref) {
		if ref.IsUnset() || ref.IsInline() {
			return
		}
		lookups = append(lookups, resolver.Lookup{Kind: kind, Request: s.request(owner, ref)})
	}

	for _, r := range p.visible(s, snap) {
		t := r.ticket
		add(domain.KindAirline, t.OwnerOrganizationID, t.Airline)
		for _, leg := range t.TripLegs {
			add(domain.KindCity, t.OwnerOrganizationID, leg.DepartureCity)
			add(domain.KindCity, t.OwnerOrganizationID, leg.ArrivalCity)
		}
		for _, so := range t.Stopovers {
			add(domain.KindCity, t.OwnerOrganizationID, so.StopoverCity)
		}
	}
	if len(lookups) == 0 {
		return 0
	}
	return p.resolver.Prewarm(ctx, lookups)
}

func (p *Pipeline) scope(ctx context.Context, sess domain.Session, snap *domain.Snapshot) *scope {
	return &scope{ctx: ctx, res: p.resolver, sess: sess, local: snap}
}

// visible applies stages 1 and 2.
func (p *Pipeline) visible(s *scope, snap *domain.Snapshot) []*row {
	if snap == nil {
		return nil
	}
	rows := make([]*row, 0, len(snap.Tickets))
	for i := range snap.Tickets {
		t := &snap.Tickets[i]
		if !t.HasLegs() || !IsVisible(t, s.sess.OrganizationID) {
			continue
		}
		rows = append(rows, &row{scope: s, ticket: t})
	}
	return rows
}

// run applies stages 3 to 8 to the visible rows.
func (p *Pipeline) run(rows []*row, q domain.Query) []*row {
	if pnr := strings.ToLower(strings.TrimSpace(q.PNR)); pnr != "" {
		rows = keep(rows, func(r *row) bool { return matchesPNR(r.ticket, pnr) })
	}

	if dest := strings.ToLower(strings.TrimSpace(q.Destination)); dest != "" {
		rows = keep(rows, func(r *row) bool {
			return strings.Contains(strings.ToLower(r.destination()), dest)
		})
	}

	if q.TravelDate != nil {
		day := *q.TravelDate
		rows = keep(rows, func(r *row) bool {
			out := r.ticket.Outbound()
			return !out.DepartureAt.IsZero() && timeutil.SameDay(out.DepartureAt.Time, day, p.location)
		})
	}

	if routes := buildSet(q.Routes); routes != nil {
		rows = keep(rows, func(r *row) bool {
			_, ok := routes[strings.ToUpper(r.routeCode())]
			return ok
		})
	}

	if airlines := buildSet(q.Airlines); airlines != nil {
		rows = keep(rows, func(r *row) bool {
			_, ok := airlines[strings.ToUpper(r.airlineName())]
			return ok
		})
	}

	sortRows(rows, q.ActiveSortKeys(), p.clock.Now())
	return rows
}

// matchesPNR reports whether any booking reference of t contains needle.
// needle must already be lowercased.
func matchesPNR(t *domain.Ticket, needle string) bool {
	for _, c := range t.PNRCandidates() {
		if strings.Contains(strings.ToLower(c), needle) {
			return true
		}
	}
	return false
}

func keep(rows []*row, pred func(*row) bool) []*row {
	result := rows[:0]
	for _, r := range rows {
		if pred(r) {
			result = append(result, r)
		}
	}
	return result
}

// buildSet creates an uppercase lookup set, nil when values holds nothing.
func buildSet(values []string) map[string]struct{} {
	var set map[string]struct{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{}, len(values))
		}
		set[strings.ToUpper(v)] = struct{}{}
	}
	return set
}

// scope carries what every resolution of one listing run shares.
type scope struct {
	ctx   context.Context
	res   ReferenceResolver
	sess  domain.Session
	local *domain.Snapshot
}

func (s *scope) request(owner domain.ID, ref domain.Ref) resolver.Request {
	return resolver.Request{Session: s.sess, Owner: owner, Ref: ref, Local: s.local}
}

func (s *scope) city(owner domain.ID, ref domain.Ref) string {
	return s.res.ResolveCity(s.ctx, s.request(owner, ref))
}

func (s *scope) cityCode(owner domain.ID, ref domain.Ref) string {
	return s.res.CityCode(s.ctx, s.request(owner, ref))
}

// row is a ticket under evaluation. Resolved values are computed on first use
// so that filters and sort comparators resolve each reference once.
type row struct {
	*scope
	ticket *domain.Ticket

	airline *string
	route   *string
	dest    *string
}

func (r *row) airlineName() string {
	if r.airline == nil {
		name := r.res.ResolveAirline(r.ctx, r.request(r.ticket.OwnerOrganizationID, r.ticket.Airline))
		r.airline = &name
	}
	return *r.airline
}

func (r *row) routeCode() string {
	if r.route == nil {
		code := RouteCode(r.ctx, r.res, r.sess, r.local, r.ticket)
		r.route = &code
	}
	return *r.route
}

func (r *row) destination() string {
	if r.dest == nil {
		var name string
		if out := r.ticket.Outbound(); out != nil {
			name = r.city(r.ticket.OwnerOrganizationID, out.ArrivalCity)
		}
		r.dest = &name
	}
	return *r.dest
}
