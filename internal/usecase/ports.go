// Package usecase contains the ticket listing logic: the query pipeline run
// over a tenant's snapshot and the use case that keeps the snapshot fresh.
package usecase

import (
	"context"

	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/resolver"
)

// CityCoder yields the short code of a city reference.
type CityCoder interface {
	CityCode(ctx context.Context, req resolver.Request) string
}

// ReferenceResolver turns references into display values.
// *resolver.Resolver implements it.
type ReferenceResolver interface {
	CityCoder
	ResolveAirline(ctx context.Context, req resolver.Request) string
	ResolveCity(ctx context.Context, req resolver.Request) string
	Entity(ctx context.Context, kind domain.ReferenceKind, req resolver.Request) (domain.ReferenceEntity, bool)
	Prewarm(ctx context.Context, lookups []resolver.Lookup) int
	ForgetMisses()
}

// SnapshotCache is the per-tenant snapshot store. *inventory.Cache implements it.
type SnapshotCache interface {
	Get(ctx context.Context, orgID domain.ID) (*domain.Snapshot, bool)
	Peek(ctx context.Context, orgID domain.ID) (*domain.Snapshot, bool)
	Put(ctx context.Context, orgID domain.ID, snap *domain.Snapshot) error
	Invalidate(ctx context.Context, orgID domain.ID) error
}

// SnapshotLoader rebuilds a snapshot from the backend. *inventory.Loader implements it.
type SnapshotLoader interface {
	Load(ctx context.Context, sess domain.Session) (*domain.Snapshot, error)
}

var _ ReferenceResolver = (*resolver.Resolver)(nil)
