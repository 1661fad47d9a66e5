// Package attribute defines the engine's view of the attribute store:
// named fields on entities, replicated locally from remote ledger state.
// The evaluation path only ever reads; writes belong to authoring tools
// and the game-action layer.
package attribute

import (
	"context"
	"strconv"
)

// Predicate is one (field, value) equality term of an entity query.
type Predicate struct {
	Field string
	Value string
}

// Store exposes current values of named fields on entities.
type Store interface {
	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error

	// GetField returns the value of one field on one entity. The boolean
	// result reports presence; absence is not an error.
	GetField(ctx context.Context, entityID, field string) (string, bool, error)

	// SetFields writes fields on an entity, creating it if needed.
	// Used by authoring flows and snapshot recording only.
	SetFields(ctx context.Context, entityID string, fields map[string]string) error

	// DeleteEntity removes an entity and its index memberships.
	DeleteEntity(ctx context.Context, entityID string) error

	// QueryEntities returns the ids of every entity matching all
	// predicates. An empty predicate list matches nothing.
	QueryEntities(ctx context.Context, preds ...Predicate) ([]string, error)
}

// GetInt reads a field as an integer. Absent or malformed data coerces
// to zero: authored rows and replicated counters are not trusted to be
// well formed, and a defined number must always come back.
func GetInt(ctx context.Context, s Store, entityID, field string) int64 {
	raw, ok, err := s.GetField(ctx, entityID, field)
	if err != nil || !ok {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// GetBool reads a field as a boolean, with absence and garbage both
// reading as false.
func GetBool(ctx context.Context, s Store, entityID, field string) bool {
	raw, ok, err := s.GetField(ctx, entityID, field)
	if err != nil || !ok {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return b
}
