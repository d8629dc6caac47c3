package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/logger"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/metrics"
)

//go:generate mockgen -source=listing.go -destination=mock_listing.go -package=usecase

// Default timeout values.
const (
	DefaultWaitTimeout    = 8 * time.Second
	DefaultRefreshTimeout = 30 * time.Second
)

// ListingUseCase defines the ticket listing operations.
type ListingUseCase interface {
	// ListTickets returns the viewer's visible tickets matching q, with facets.
	// Backend failures are reported in the result, not as an error; the error
	// return is reserved for invalid input and caller cancellation.
	ListTickets(ctx context.Context, sess domain.Session, q domain.Query) (*domain.ListResult, error)

	// Invalidate forces the next listing of orgID to refresh from the backend.
	Invalidate(ctx context.Context, orgID domain.ID) error
}

// Config contains configuration options for the listing use case.
type Config struct {
	// WaitTimeout bounds how long a request waits on a refresh before
	// answering from stale data with IsLoading set
	WaitTimeout time.Duration

	// RefreshTimeout bounds the refresh itself, independently of any caller
	RefreshTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		WaitTimeout:    DefaultWaitTimeout,
		RefreshTimeout: DefaultRefreshTimeout,
	}
}

type listingUseCase struct {
	cache    SnapshotCache
	loader   SnapshotLoader
	pipeline *Pipeline
	cfg      Config
	log      zerolog.Logger
	metrics  *metrics.Metrics

	// refreshes coalesces concurrent refreshes of one tenant
	refreshes singleflight.Group
}

// NewListingUseCase creates a ListingUseCase.
// If config is nil, default timeout values are used.
func NewListingUseCase(
	cache SnapshotCache,
	loader SnapshotLoader,
	pipeline *Pipeline,
	config *Config,
	log zerolog.Logger,
	m *metrics.Metrics,
) ListingUseCase {
	cfg := DefaultConfig()
	if config != nil {
		if config.WaitTimeout > 0 {
			cfg.WaitTimeout = config.WaitTimeout
		}
		if config.RefreshTimeout > 0 {
			cfg.RefreshTimeout = config.RefreshTimeout
		}
	}

	return &listingUseCase{
		cache:    cache,
		loader:   loader,
		pipeline: pipeline,
		cfg:      cfg,
		log:      log.With().Str("component", "listing").Logger(),
		metrics:  m,
	}
}

// ListTickets implements ListingUseCase.ListTickets.
//
// Behavior:
//   - a fresh cached snapshot is served directly
//   - otherwise one refresh per tenant runs, shared by concurrent callers and
//     detached from their cancellation
//   - a refresh slower than WaitTimeout leaves the previous snapshot on screen
//     with IsLoading set; the refresh completes and fills the cache
//   - a failed refresh keeps the previous snapshot and reports the error
func (uc *listingUseCase) ListTickets(ctx context.Context, sess domain.Session, q domain.Query) (*domain.ListResult, error) {
	if !sess.IsValid() {
		return nil, domain.ErrMissingSession
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, uc.log).With().Str("organization_id", sess.OrganizationID.String()).Logger()
	result := &domain.ListResult{Source: domain.SourceCache}

	snap, ok := uc.cache.Get(ctx, sess.OrganizationID)
	if !ok {
		var err error
		snap, err = uc.refresh(ctx, sess, result, log)
		if err != nil {
			return nil, err
		}
	}

	if snap == nil || len(snap.Tickets) == 0 {
		result.Source = domain.SourceEmpty
		result.Tickets = []domain.TicketView{}
		result.Facets = domain.Facets{Routes: []string{}, Airlines: []string{}}
		return result, nil
	}

	uc.pipeline.Prewarm(ctx, sess, snap)

	listing := uc.pipeline.List(ctx, sess, snap, q)
	result.Tickets = listing.Tickets
	result.Facets = listing.Facets

	log.Debug().
		Str("source", result.Source).
		Int("total", len(snap.Tickets)).
		Int("matched", len(listing.Tickets)).
		Msg("Listed tickets")

	return result, nil
}

// refresh waits on the tenant's refresh and records the outcome in result.
// It falls back to the previous snapshot when the refresh fails or is slow.
func (uc *listingUseCase) refresh(ctx context.Context, sess domain.Session, result *domain.ListResult, log zerolog.Logger) (*domain.Snapshot, error) {
	orgID := sess.OrganizationID

	ch := uc.refreshes.DoChan(orgID.String(), func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.RefreshTimeout)
		defer cancel()

		snap, err := uc.loader.Load(rctx, sess)
		if err != nil {
			uc.metrics.Refresh("error")
			return nil, err
		}
		uc.metrics.Refresh("ok")

		if err := uc.cache.Put(rctx, orgID, snap); err != nil {
			log.Warn().Err(err).Msg("Failed to store refreshed snapshot")
		}
		return snap, nil
	})

	timer := time.NewTimer(uc.cfg.WaitTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err == nil {
			result.Source = domain.SourceBackend
			return res.Val.(*domain.Snapshot), nil
		}
		log.Error().Err(res.Err).Msg("Inventory refresh failed")
		result.Error = domain.UserMessage(res.Err)

	case <-timer.C:
		log.Warn().Dur("wait", uc.cfg.WaitTimeout).Msg("Inventory refresh still running, serving previous snapshot")
		result.IsLoading = true

	case <-ctx.Done():
		return nil, fmt.Errorf("list tickets: %w", ctx.Err())
	}

	if prev, ok := uc.cache.Peek(ctx, orgID); ok {
		result.Source = domain.SourceStale
		return prev, nil
	}
	result.Source = domain.SourceEmpty
	return nil, nil
}

// Invalidate implements ListingUseCase.Invalidate. Unresolved references are
// retried on the next listing too.
func (uc *listingUseCase) Invalidate(ctx context.Context, orgID domain.ID) error {
	if orgID == "" {
		return fmt.Errorf("%w: organization id is required", domain.ErrInvalidRequest)
	}
	if err := uc.cache.Invalidate(ctx, orgID); err != nil {
		return fmt.Errorf("invalidate %s: %w", orgID, err)
	}
	uc.pipeline.resolver.ForgetMisses()

	uc.log.Info().Str("organization_id", orgID.String()).Msg("Inventory invalidated")
	return nil
}
