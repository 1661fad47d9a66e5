package condition

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kamiworld/engine/pkg/registry"
)

// AuthoredRow is the human-facing shape of a condition row, as it appears
// in authoring JSON. Operators use the author vocabulary (HAVE, GREATER,
// LESSER, AT, COMPLETE); canonical operators are accepted too so exported
// rows can be re-imported.
type AuthoredRow struct {
	Namespace string `json:"namespace"`
	Index     uint32 `json:"index"`
	Slot      uint32 `json:"slot"`
	Handler   string `json:"handler,omitempty"` // CURR, INC, DEC, BOOL; defaults to CURR
	Op        string `json:"op"`
	Kind      string `json:"kind"`
	KindIndex uint32 `json:"kind_index,omitempty"`
	Value     int64  `json:"value,omitempty"`
	Ref       string `json:"ref,omitempty"`
}

// Compile translates the authored row into its ownership pointer and
// canonical condition. It is the single place author vocabulary becomes
// runtime data; cmd/seed and cmd/validate both go through it.
func (r AuthoredRow) Compile() (registry.Key, Condition, error) {
	if r.Namespace == "" {
		return registry.Key{}, Condition{}, fmt.Errorf("row is missing a namespace")
	}

	op, err := Translate(r.Op)
	if err != nil {
		// Not an author word; accept the canonical operator directly.
		op = Operator(r.Op)
		if !op.Valid() {
			return registry.Key{}, Condition{}, fmt.Errorf("row %s[%d] slot %d: %w", r.Namespace, r.Index, r.Slot, err)
		}
	}

	h := HandlerCurrent
	if r.Handler != "" {
		h = Handler(r.Handler)
		switch h {
		case HandlerCurrent, HandlerIncrease, HandlerDecrease, HandlerBoolean:
		default:
			return registry.Key{}, Condition{}, fmt.Errorf("row %s[%d] slot %d: unknown handler %q", r.Namespace, r.Index, r.Slot, r.Handler)
		}
	}

	if r.Kind == "" {
		return registry.Key{}, Condition{}, fmt.Errorf("row %s[%d] slot %d: missing kind", r.Namespace, r.Index, r.Slot)
	}

	var ref uuid.UUID
	if r.Ref != "" {
		ref, err = uuid.Parse(r.Ref)
		if err != nil {
			return registry.Key{}, Condition{}, fmt.Errorf("row %s[%d] slot %d: bad ref: %w", r.Namespace, r.Index, r.Slot, err)
		}
	}

	owner := registry.NewKey(r.Namespace, r.Index)
	cond := Condition{
		ID:    registry.RowID(owner, r.Slot),
		Logic: NewLogic(h, op),
		Target: Target{
			Kind:  Kind(r.Kind),
			Index: r.KindIndex,
			Value: r.Value,
			Ref:   ref,
		},
	}
	return owner, cond, nil
}
