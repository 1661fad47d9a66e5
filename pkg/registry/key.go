// Package registry provides deterministic ownership pointers: stable
// identifiers computed from a namespace string and numeric index, used to
// find every condition row belonging to one registry entry without a
// secondary index table.
package registry

import (
	"fmt"

	"github.com/google/uuid"
)

// root anchors every derived identifier. Changing it orphans all
// previously authored rows, so it is fixed for the life of the project.
var root = uuid.MustParse("9f2c6c1e-4b0a-5d37-8f61-2e6a03c55d18")

// Key is a typed ownership pointer. The derived ID is computed once at
// construction and carried with the key, never re-hashed per lookup.
type Key struct {
	Namespace string
	Index     uint32

	id uuid.UUID
}

// NewKey builds the pointer for (namespace, index). The same inputs
// always produce the same ID.
func NewKey(namespace string, index uint32) Key {
	return Key{
		Namespace: namespace,
		Index:     index,
		id:        uuid.NewSHA1(root, fmt.Appendf(nil, "%s:%d", namespace, index)),
	}
}

// ID returns the derived identifier.
func (k Key) ID() uuid.UUID {
	return k.id
}

func (k Key) String() string {
	return fmt.Sprintf("%s[%d]", k.Namespace, k.Index)
}

// RowID derives the identity of the condition row in the given slot under
// an ownership pointer. Slots let one registry entry own several rows with
// stable, re-authorable identities.
func RowID(owner Key, slot uint32) uuid.UUID {
	return uuid.NewSHA1(owner.id, fmt.Appendf(nil, "row:%d", slot))
}

// ClaimID derives the identity of a holder's claim marker under a
// registry entry. Claims are terminal: the marker is only ever written
// once.
func ClaimID(owner Key, holderID string) uuid.UUID {
	return uuid.NewSHA1(owner.id, []byte("claim:"+holderID))
}

// SnapshotID derives the identity of the snapshot a delta objective
// records for one holder. Any holder with a snapshot under a row is
// implicitly tracking that objective.
func SnapshotID(row uuid.UUID, holderID string) uuid.UUID {
	return uuid.NewSHA1(row, []byte("snap:"+holderID))
}
