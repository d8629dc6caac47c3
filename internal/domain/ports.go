package domain

import "context"

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=domain

// Session identifies the viewer: the tenant browsing inventory and the bearer
// token used for every backend call made on its behalf.
type Session struct {
	OrganizationID ID
	Token          string
}

// IsValid reports whether both the tenant and the token are present.
func (s Session) IsValid() bool {
	return s.OrganizationID != "" && s.Token != ""
}

// InventorySource is the REST backend as seen by the engine.
// An empty orgID on reference calls means the global (unscoped) namespace.
type InventorySource interface {
	// ListTickets returns the viewer tenant's tickets.
	ListTickets(ctx context.Context, sess Session) ([]Ticket, error)

	// ListReferences returns a reference table, scoped to orgID when non-empty.
	ListReferences(ctx context.Context, sess Session, kind ReferenceKind, orgID ID) ([]ReferenceEntity, error)

	// GetReference fetches one reference entity, scoped to orgID when non-empty.
	// Returns an error wrapping ErrNotFound when the entity does not exist.
	GetReference(ctx context.Context, sess Session, kind ReferenceKind, id, orgID ID) (ReferenceEntity, error)
}

// KeyValueStore is the persistence behind the inventory cache.
type KeyValueStore interface {
	// Get returns the value and true, or false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error

	// Take removes key and reports whether it was present. Among concurrent
	// callers, across every process sharing the store, at most one sees true.
	Take(ctx context.Context, key string) (bool, error)
}
