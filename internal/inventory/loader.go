package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/logger"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
)

// Loader rebuilds a tenant's snapshot from the backend.
type Loader struct {
	source domain.InventorySource
	clock  timeutil.Clock
	log    zerolog.Logger
}

// NewLoader creates a loader reading from source.
func NewLoader(source domain.InventorySource, clock timeutil.Clock, log zerolog.Logger) *Loader {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &Loader{source: source, clock: clock, log: log}
}

// Load fetches the viewer tenant's tickets, airlines and cities concurrently
// and assembles a snapshot. The first failure cancels the other requests and
// is returned; nothing partial is produced.
func (l *Loader) Load(ctx context.Context, sess domain.Session) (*domain.Snapshot, error) {
	var (
		tickets  []domain.Ticket
		airlines []domain.ReferenceEntity
		cities   []domain.ReferenceEntity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tickets, err = l.source.ListTickets(gctx, sess)
		if err != nil {
			return fmt.Errorf("load tickets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		airlines, err = l.source.ListReferences(gctx, sess, domain.KindAirline, sess.OrganizationID)
		if err != nil {
			return fmt.Errorf("load airlines: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cities, err = l.source.ListReferences(gctx, sess, domain.KindCity, sess.OrganizationID)
		if err != nil {
			return fmt.Errorf("load cities: %w", err)
		}
		return nil
	})

	log := logger.FromContext(ctx, l.log).With().
		Str("organization_id", sess.OrganizationID.String()).
		Logger()

	if err := g.Wait(); err != nil {
		log.Debug().Err(err).Msg("Inventory snapshot load failed")
		return nil, err
	}

	snap := domain.NewSnapshot(tickets, airlines, cities, l.clock.Now())
	log.Debug().
		Int("tickets", len(snap.Tickets)).
		Int("airlines", len(snap.Airlines)).
		Int("cities", len(snap.Cities)).
		Msg("Inventory snapshot loaded")
	return snap, nil
}
