// Package inventory keeps each tenant's ticket snapshot: the cache that decides
// whether a stored snapshot may be served, and the loader that rebuilds it.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/metrics"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
)

// Defaults for CacheConfig.
const (
	DefaultTTL           = 5 * time.Minute
	DefaultCachePrefix   = "ticket_inventory_cache_"
	DefaultRefreshPrefix = "ticket_inventory_refresh_"
)

// CacheConfig configures a Cache.
type CacheConfig struct {
	TTL           time.Duration
	CachePrefix   string
	RefreshPrefix string
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:           DefaultTTL,
		CachePrefix:   DefaultCachePrefix,
		RefreshPrefix: DefaultRefreshPrefix,
	}
}

// Cache stores one snapshot per tenant in a KeyValueStore.
//
// A stored snapshot is served only while it is younger than the TTL, holds at
// least one ticket, and no forced-refresh flag is pending for the tenant.
type Cache struct {
	store   domain.KeyValueStore
	cfg     CacheConfig
	clock   timeutil.Clock
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewCache creates a cache over store. Zero fields of cfg take their defaults.
func NewCache(store domain.KeyValueStore, cfg CacheConfig, clock timeutil.Clock, log zerolog.Logger, m *metrics.Metrics) *Cache {
	def := DefaultCacheConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = def.CachePrefix
	}
	if cfg.RefreshPrefix == "" {
		cfg.RefreshPrefix = def.RefreshPrefix
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &Cache{store: store, cfg: cfg, clock: clock, log: log, metrics: m}
}

// CacheKey returns the snapshot key for a tenant.
func (c *Cache) CacheKey(orgID domain.ID) string {
	return c.cfg.CachePrefix + orgID.String()
}

// RefreshKey returns the forced-refresh flag key for a tenant.
func (c *Cache) RefreshKey(orgID domain.ID) string {
	return c.cfg.RefreshPrefix + orgID.String()
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.cfg.TTL
}

// Get returns the tenant's snapshot when it may be served.
// A pending forced-refresh flag is consumed by this call: the first Get after
// Invalidate misses, later ones follow the normal rules.
// Store failures are treated as misses.
func (c *Cache) Get(ctx context.Context, orgID domain.ID) (*domain.Snapshot, bool) {
	log := c.log.With().Str("organization_id", orgID.String()).Logger()

	flagged, err := c.store.Take(ctx, c.RefreshKey(orgID))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to take refresh flag")
		c.metrics.CacheLookup(metrics.CacheMissStoreErr)
		return nil, false
	}
	if flagged {
		log.Debug().Msg("Forced refresh requested")
		c.metrics.CacheLookup(metrics.CacheMissForced)
		return nil, false
	}

	snap, outcome := c.read(ctx, orgID)
	if snap == nil {
		c.metrics.CacheLookup(outcome)
		return nil, false
	}

	switch err := snap.CheckUsable(c.clock.Now(), c.cfg.TTL); {
	case errors.Is(err, domain.ErrSnapshotEmpty):
		c.metrics.CacheLookup(metrics.CacheMissEmpty)
		return nil, false
	case errors.Is(err, domain.ErrSnapshotExpired):
		log.Debug().Time("captured_at", snap.CapturedAt).Msg("Cached snapshot expired")
		c.metrics.CacheLookup(metrics.CacheMissExpired)
		return nil, false
	}

	c.metrics.CacheLookup(metrics.CacheHit)
	return snap, true
}

// Peek returns the last stored snapshot regardless of age, emptiness or a
// pending refresh flag. It never consumes the flag.
func (c *Cache) Peek(ctx context.Context, orgID domain.ID) (*domain.Snapshot, bool) {
	snap, _ := c.read(ctx, orgID)
	return snap, snap != nil
}

// Put replaces the tenant's snapshot.
func (c *Cache) Put(ctx context.Context, orgID domain.ID, snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("put snapshot for %s: nil snapshot", orgID)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", orgID, err)
	}
	if err := c.store.Set(ctx, c.CacheKey(orgID), data); err != nil {
		return fmt.Errorf("store snapshot for %s: %w", orgID, err)
	}
	return nil
}

// Invalidate sets the tenant's forced-refresh flag.
func (c *Cache) Invalidate(ctx context.Context, orgID domain.ID) error {
	if err := c.store.Set(ctx, c.RefreshKey(orgID), []byte("1")); err != nil {
		return fmt.Errorf("set refresh flag for %s: %w", orgID, err)
	}
	c.metrics.Invalidation()
	c.log.Info().Str("organization_id", orgID.String()).Msg("Inventory invalidated")
	return nil
}

// read loads and decodes the stored snapshot. On failure it returns nil and
// the lookup outcome describing why.
func (c *Cache) read(ctx context.Context, orgID domain.ID) (*domain.Snapshot, string) {
	data, ok, err := c.store.Get(ctx, c.CacheKey(orgID))
	if err != nil {
		c.log.Warn().Err(err).Str("organization_id", orgID.String()).Msg("Failed to read cached snapshot")
		return nil, metrics.CacheMissStoreErr
	}
	if !ok {
		return nil, metrics.CacheMissAbsent
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		c.log.Warn().Err(err).Str("organization_id", orgID.String()).Msg("Discarding undecodable cached snapshot")
		return nil, metrics.CacheMissCorrupt
	}
	return &snap, ""
}
