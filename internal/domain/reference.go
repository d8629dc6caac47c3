package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ReferenceKind names a reference table.
type ReferenceKind string

// Reference kinds resolved by the engine.
const (
	KindAirline ReferenceKind = "airline"
	KindCity    ReferenceKind = "city"
)

// Path returns the backend collection path for the kind (e.g. "airlines").
func (k ReferenceKind) Path() string {
	switch k {
	case KindAirline:
		return "airlines"
	case KindCity:
		return "cities"
	default:
		return string(k) + "s"
	}
}

// ReferenceEntity is an airline or city record owned by a tenant.
type ReferenceEntity struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`

	// Logo is set for airlines
	Logo string `json:"logo,omitempty"`

	// Code is set for cities (IATA-style 3-letter code)
	Code string `json:"code,omitempty"`
}

// refVariant tags the active member of a Ref.
type refVariant uint8

const (
	refUnset refVariant = iota
	refByID
	refInline
)

// Ref is a foreign-key reference that is either unset, a bare id, or an inline
// record that already carries a readable name.
type Ref struct {
	variant refVariant
	id      ID
	entity  ReferenceEntity
}

// Unset returns an empty reference.
func Unset() Ref {
	return Ref{}
}

// ByID returns a reference to the entity with the given id.
func ByID(id ID) Ref {
	if id == "" {
		return Ref{}
	}
	return Ref{variant: refByID, id: id}
}

// Inline returns a reference carrying the full record.
func Inline(e ReferenceEntity) Ref {
	return Ref{variant: refInline, id: e.ID, entity: e}
}

// IsUnset reports whether the reference carries nothing.
func (r Ref) IsUnset() bool {
	return r.variant == refUnset
}

// IsInline reports whether the reference carries an inline record.
func (r Ref) IsInline() bool {
	return r.variant == refInline
}

// ID returns the referenced id, empty when unset.
func (r Ref) ID() ID {
	return r.id
}

// Entity returns the inline record, if any.
func (r Ref) Entity() (ReferenceEntity, bool) {
	if r.variant != refInline {
		return ReferenceEntity{}, false
	}
	return r.entity, true
}

// String renders the reference for logs.
func (r Ref) String() string {
	switch r.variant {
	case refByID:
		return "id:" + string(r.id)
	case refInline:
		return fmt.Sprintf("inline:%s(%s)", r.id, r.entity.Name)
	default:
		return "unset"
	}
}

// UnmarshalJSON decodes null, an id (number or string) or an object.
// Objects with a non-empty name become Inline; objects with only an id become ByID.
func (r *Ref) UnmarshalJSON(data []byte) error {
	*r = Ref{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '{' {
		var e ReferenceEntity
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("decode reference: %w", err)
		}
		if e.Name != "" {
			*r = Inline(e)
			return nil
		}
		*r = ByID(e.ID)
		return nil
	}

	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode reference: %w", err)
	}
	*r = ByID(id)
	return nil
}

// MarshalJSON encodes the reference in the same shapes it decodes from.
func (r Ref) MarshalJSON() ([]byte, error) {
	switch r.variant {
	case refByID:
		return json.Marshal(string(r.id))
	case refInline:
		return json.Marshal(r.entity)
	default:
		return []byte("null"), nil
	}
}
