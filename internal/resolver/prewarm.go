package resolver

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/logger"
)

// Lookup pairs a reference kind with the request resolving it.
type Lookup struct {
	Kind domain.ReferenceKind
	Request
}

// Prewarm resolves every distinct reference in lookups that the local tiers
// cannot answer, with at most Config.Concurrency lookups in flight. It returns
// once all of them finished or ctx is done; later Resolve calls for the same
// ids are then answered from memory.
func (r *Resolver) Prewarm(ctx context.Context, lookups []Lookup) int {
	seen := make(map[cacheKey]struct{}, len(lookups))
	pending := make([]Lookup, 0, len(lookups))

	for _, l := range lookups {
		if l.Ref.ID() == "" {
			continue
		}
		key := keyFor(l.Kind, l.Request)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, _, ok := r.local(l.Kind, l.Request); ok {
			continue
		}
		if r.recentlyMissed(key) {
			continue
		}
		pending = append(pending, l)
	}
	if len(pending) == 0 {
		return 0
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for _, l := range pending {
		g.Go(func() error {
			r.Entity(gctx, l.Kind, l.Request)
			return nil
		})
	}
	_ = g.Wait()

	log := logger.FromContext(ctx, r.log)
	log.Debug().Int("lookups", len(pending)).Msg("Prewarmed references")
	return len(pending)
}
