// Package resolver turns airline and city references into display values.
//
// A reference may point into another tenant's namespace, so the viewer's own
// tables are not always enough. Resolution walks an ordered chain and the
// first tier that produces a named entity wins:
//
//  1. an inline record carrying a name
//  2. the viewer's snapshot tables, then entities resolved earlier
//  3. the owner's single-entity endpoint (owner differs from viewer)
//  4. the owner's list endpoint (owner known)
//  5. the global single-entity endpoint
//  6. the global list endpoint
//
// When every tier fails a placeholder is shown. Failures never reach the caller.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/logger"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/metrics"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
)

// Placeholders shown when a reference cannot be resolved.
const (
	UnknownAirline = "Unknown Airline"
	UnknownCity    = "Unknown City"
)

// Tier names, used as metric labels and in logs.
const (
	TierInline       = "inline"
	TierLocal        = "local"
	TierResolved     = "resolved_cache"
	TierOwnerSingle  = "owner_single"
	TierOwnerList    = "owner_list"
	TierGlobalSingle = "global_single"
	TierGlobalList   = "global_list"
	TierPlaceholder  = "placeholder"
)

// Defaults for Config.
const (
	DefaultTierTimeout = 3 * time.Second
	DefaultNegativeTTL = 10 * time.Minute
	DefaultConcurrency = 8
)

// errExhausted marks a lookup in which every remote tier failed.
var errExhausted = errors.New("reference unresolved")

// Config configures a Resolver.
type Config struct {
	// TierTimeout bounds each remote tier
	TierTimeout time.Duration

	// NegativeTTL is how long an exhausted id is answered with the placeholder
	// without fetching again. Zero disables the memo.
	NegativeTTL time.Duration

	// Concurrency bounds parallel lookups during Prewarm
	Concurrency int
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{
		TierTimeout: DefaultTierTimeout,
		NegativeTTL: DefaultNegativeTTL,
		Concurrency: DefaultConcurrency,
	}
}

// Request describes one reference to resolve.
type Request struct {
	// Session is the viewer; its token authorizes every fetch
	Session domain.Session

	// Owner is the tenant that owns the ticket holding the reference
	Owner domain.ID

	Ref domain.Ref

	// Local holds the viewer's snapshot tables (may be nil)
	Local *domain.Snapshot
}

// cacheKey scopes every memory of the resolver to the viewing tenant: what
// one tenant's token can or cannot fetch says nothing about another's.
type cacheKey struct {
	viewer domain.ID
	kind   domain.ReferenceKind
	id     domain.ID
}

func keyFor(kind domain.ReferenceKind, req Request) cacheKey {
	return cacheKey{viewer: req.Session.OrganizationID, kind: kind, id: req.Ref.ID()}
}

func (k cacheKey) String() string {
	return k.viewer.String() + "/" + string(k.kind) + "/" + k.id.String()
}

// Resolver resolves references with a per-viewer memory of past successes
// and failures. It is safe for concurrent use.
type Resolver struct {
	source  domain.InventorySource
	cfg     Config
	clock   timeutil.Clock
	log     zerolog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	resolved map[cacheKey]domain.ReferenceEntity
	misses   map[cacheKey]time.Time

	inflight singleflight.Group
}

// New creates a resolver. Zero fields of cfg take their defaults, except
// NegativeTTL where zero disables the memo.
func New(source domain.InventorySource, cfg Config, clock timeutil.Clock, log zerolog.Logger, m *metrics.Metrics) *Resolver {
	if cfg.TierTimeout <= 0 {
		cfg.TierTimeout = DefaultTierTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.NegativeTTL < 0 {
		cfg.NegativeTTL = 0
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &Resolver{
		source:   source,
		cfg:      cfg,
		clock:    clock,
		log:      log,
		metrics:  m,
		resolved: make(map[cacheKey]domain.ReferenceEntity),
		misses:   make(map[cacheKey]time.Time),
	}
}

// ResolveAirline returns the airline's display name, or UnknownAirline.
func (r *Resolver) ResolveAirline(ctx context.Context, req Request) string {
	if e, ok := r.Entity(ctx, domain.KindAirline, req); ok {
		return e.Name
	}
	return UnknownAirline
}

// ResolveCity returns the city's display name, or a placeholder: "City (42)"
// for an unresolved numeric id, UnknownCity otherwise.
func (r *Resolver) ResolveCity(ctx context.Context, req Request) string {
	if e, ok := r.Entity(ctx, domain.KindCity, req); ok {
		return e.Name
	}
	return CityPlaceholder(req.Ref)
}

// CityPlaceholder returns the display value for an unresolvable city.
func CityPlaceholder(ref domain.Ref) string {
	if id := ref.ID(); id.IsNumeric() {
		return fmt.Sprintf("City (%s)", id)
	}
	return UnknownCity
}

// CityCode returns the city's short code: the snapshot code table first, then
// the resolved entity's code, then the first three letters of its display
// name, uppercased.
func (r *Resolver) CityCode(ctx context.Context, req Request) string {
	id := req.Ref.ID()
	if req.Local != nil && id != "" {
		if code := req.Local.CityCodes[id]; code != "" {
			return code
		}
	}

	e, ok := r.Entity(ctx, domain.KindCity, req)
	if ok && e.Code != "" {
		return e.Code
	}

	name := CityPlaceholder(req.Ref)
	if ok {
		name = e.Name
	}
	return abbreviate(name)
}

func abbreviate(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return strings.ToUpper(string(runes))
}

// Entity resolves a reference to its full record. It returns false when every
// tier failed.
func (r *Resolver) Entity(ctx context.Context, kind domain.ReferenceKind, req Request) (domain.ReferenceEntity, bool) {
	if e, tier, ok := r.local(kind, req); ok {
		r.metrics.Resolution(string(kind), tier)
		return e, true
	}

	id := req.Ref.ID()
	if id == "" {
		r.metrics.Resolution(string(kind), TierPlaceholder)
		return domain.ReferenceEntity{}, false
	}

	key := keyFor(kind, req)
	if r.recentlyMissed(key) {
		r.metrics.Resolution(string(kind), TierPlaceholder)
		return domain.ReferenceEntity{}, false
	}

	// Concurrent lookups of one id by one viewer share a single walk of the
	// remote tiers. The walk is detached from any one caller's cancellation.
	ch := r.inflight.DoChan(key.String(), func() (any, error) {
		return r.remote(context.WithoutCancel(ctx), key, req)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			r.metrics.Resolution(string(kind), TierPlaceholder)
			return domain.ReferenceEntity{}, false
		}
		return res.Val.(domain.ReferenceEntity), true
	case <-ctx.Done():
		return domain.ReferenceEntity{}, false
	}
}

// local runs tiers 1 and 2, which never leave the process.
func (r *Resolver) local(kind domain.ReferenceKind, req Request) (domain.ReferenceEntity, string, bool) {
	if e, ok := req.Ref.Entity(); ok && strings.TrimSpace(e.Name) != "" {
		return e, TierInline, true
	}

	id := req.Ref.ID()
	if id == "" {
		return domain.ReferenceEntity{}, "", false
	}

	if e, ok := req.Local.Table(kind)[id]; ok && strings.TrimSpace(e.Name) != "" {
		return e, TierLocal, true
	}

	r.mu.RLock()
	e, ok := r.resolved[keyFor(kind, req)]
	r.mu.RUnlock()
	if ok {
		return e, TierResolved, true
	}
	return domain.ReferenceEntity{}, "", false
}

type tier struct {
	name  string
	fetch func(ctx context.Context) (domain.ReferenceEntity, error)
}

// remote runs tiers 3 to 6 in order.
func (r *Resolver) remote(ctx context.Context, key cacheKey, req Request) (domain.ReferenceEntity, error) {
	log := logger.FromContext(ctx, r.log).With().
		Str("kind", string(key.kind)).
		Str("id", key.id.String()).
		Str("owner", req.Owner.String()).
		Str("viewer", req.Session.OrganizationID.String()).
		Logger()

	for _, t := range r.tiers(key, req) {
		tctx, cancel := context.WithTimeout(ctx, r.cfg.TierTimeout)
		e, err := t.fetch(tctx)
		cancel()

		if err == nil && strings.TrimSpace(e.Name) != "" {
			if e.ID == "" {
				e.ID = key.id
			}
			r.remember(key, e)
			r.metrics.Resolution(string(key.kind), t.name)
			log.Debug().Str("tier", t.name).Str("name", e.Name).Msg("Reference resolved")
			return e, nil
		}
		if err == nil {
			err = errors.New("no named entity")
		}
		log.Debug().Err(err).Str("tier", t.name).Msg("Resolution tier failed")
	}

	r.recordMiss(key)
	log.Warn().Msg("Reference unresolved, showing placeholder")
	return domain.ReferenceEntity{}, errExhausted
}

// tiers lists the remote tiers that apply to req.
func (r *Resolver) tiers(key cacheKey, req Request) []tier {
	sess := req.Session
	owner := req.Owner
	var tiers []tier

	if owner != "" && owner != sess.OrganizationID {
		tiers = append(tiers, tier{TierOwnerSingle, func(ctx context.Context) (domain.ReferenceEntity, error) {
			return r.source.GetReference(ctx, sess, key.kind, key.id, owner)
		}})
	}
	if owner != "" {
		tiers = append(tiers, tier{TierOwnerList, func(ctx context.Context) (domain.ReferenceEntity, error) {
			return r.findInList(ctx, sess, key, owner)
		}})
	}
	tiers = append(tiers,
		tier{TierGlobalSingle, func(ctx context.Context) (domain.ReferenceEntity, error) {
			return r.source.GetReference(ctx, sess, key.kind, key.id, "")
		}},
		tier{TierGlobalList, func(ctx context.Context) (domain.ReferenceEntity, error) {
			return r.findInList(ctx, sess, key, "")
		}},
	)
	return tiers
}

func (r *Resolver) findInList(ctx context.Context, sess domain.Session, key cacheKey, orgID domain.ID) (domain.ReferenceEntity, error) {
	list, err := r.source.ListReferences(ctx, sess, key.kind, orgID)
	if err != nil {
		return domain.ReferenceEntity{}, err
	}
	for _, e := range list {
		if e.ID == key.id {
			return e, nil
		}
	}
	return domain.ReferenceEntity{}, fmt.Errorf("%s %s not in list: %w", key.kind, key.id, domain.ErrNotFound)
}

// remember stores a successful remote resolution and clears any miss.
func (r *Resolver) remember(key cacheKey, e domain.ReferenceEntity) {
	r.mu.Lock()
	r.resolved[key] = e
	delete(r.misses, key)
	r.mu.Unlock()
}

// recordMiss records an exhausted lookup in the negative memo.
func (r *Resolver) recordMiss(key cacheKey) {
	if r.cfg.NegativeTTL == 0 {
		return
	}
	r.mu.Lock()
	r.misses[key] = r.clock.Now().Add(r.cfg.NegativeTTL)
	r.mu.Unlock()
}

func (r *Resolver) recentlyMissed(key cacheKey) bool {
	r.mu.RLock()
	until, ok := r.misses[key]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if r.clock.Now().Before(until) {
		return true
	}

	r.mu.Lock()
	if u, still := r.misses[key]; still && !r.clock.Now().Before(u) {
		delete(r.misses, key)
	}
	r.mu.Unlock()
	return false
}

// ForgetMisses clears the negative memo so that previously unresolvable ids
// are fetched again, e.g. after the inventory changed.
func (r *Resolver) ForgetMisses() {
	r.mu.Lock()
	r.misses = make(map[cacheKey]time.Time)
	r.mu.Unlock()
}

// Stats reports the sizes of the resolved cache and the negative memo.
func (r *Resolver) Stats() (resolved, misses int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resolved), len(r.misses)
}
