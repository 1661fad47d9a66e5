package condition

import (
	"strconv"

	"github.com/google/uuid"
)

// Field names for condition rows in the attribute store. Rows are
// entities of type "condition" owned by a registry pointer; adapters
// find them with a (type, owner) query.
const (
	EntityType = "condition"

	FieldType      = "type"
	FieldOwner     = "owner"
	FieldSlot      = "slot"
	FieldLogic     = "logic"
	FieldKind      = "kind"
	FieldKindIndex = "kind_index"
	FieldValue     = "value"
	FieldRef       = "ref"
)

// Fields flattens the condition into attribute-store fields under the
// given owner pointer.
func (c Condition) Fields(owner uuid.UUID) map[string]string {
	fields := map[string]string{
		FieldType:  EntityType,
		FieldOwner: owner.String(),
		FieldLogic: string(c.Logic),
		FieldKind:  string(c.Target.Kind),
	}
	if c.Target.Index != 0 {
		fields[FieldKindIndex] = strconv.FormatUint(uint64(c.Target.Index), 10)
	}
	if c.Target.Value != 0 {
		fields[FieldValue] = strconv.FormatInt(c.Target.Value, 10)
	}
	if c.Target.Ref != uuid.Nil {
		fields[FieldRef] = c.Target.Ref.String()
	}
	return fields
}

// FromFields rebuilds a condition from stored fields. Rows come from
// hand-edited spreadsheets, so malformed numbers coerce to zero and an
// unparseable ref reads as nil; nothing here errors.
func FromFields(id uuid.UUID, fields map[string]string) Condition {
	c := Condition{
		ID:    id,
		Logic: Logic(fields[FieldLogic]),
		Target: Target{
			Kind: Kind(fields[FieldKind]),
		},
	}
	if raw, ok := fields[FieldKindIndex]; ok {
		if n, err := strconv.ParseUint(raw, 10, 32); err == nil {
			c.Target.Index = uint32(n)
		}
	}
	if raw, ok := fields[FieldValue]; ok {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			c.Target.Value = n
		}
	}
	if raw, ok := fields[FieldRef]; ok {
		if ref, err := uuid.Parse(raw); err == nil {
			c.Target.Ref = ref
		}
	}
	return c
}
