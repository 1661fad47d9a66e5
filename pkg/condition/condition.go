package condition

import (
	"github.com/google/uuid"
)

// Kind selects an entry in the quantity vocabulary. Kinds outside the
// named set are legal: they fall through to a generic counter read keyed
// by (holder id, kind, index), so new counters need no engine change.
type Kind string

const (
	KindCoin         Kind = "COIN"
	KindItem         Kind = "ITEM"
	KindSkill        Kind = "SKILL"
	KindKami         Kind = "KAMI"
	KindRoom         Kind = "ROOM"
	KindLevel        Kind = "LEVEL"
	KindQuest        Kind = "QUEST"
	KindCompleteComp Kind = "COMPLETE_COMP"
)

// Named reports whether the kind is part of the built-in vocabulary,
// as opposed to an arbitrary counter name.
func (k Kind) Named() bool {
	switch k {
	case KindCoin, KindItem, KindSkill, KindKami, KindRoom, KindLevel, KindQuest, KindCompleteComp:
		return true
	default:
		return false
	}
}

// Target describes what a condition measures and the threshold it is
// compared against.
type Target struct {
	Kind  Kind   `json:"kind"`
	Index uint32 `json:"index,omitempty"` // disambiguates within the kind (item index, skill index)
	Value int64  `json:"value,omitempty"` // comparison threshold

	// Ref points at another registry row whose completion marker is being
	// tested. Only meaningful for KindCompleteComp.
	Ref uuid.UUID `json:"ref,omitempty"`
}

// Condition is one authored row of declarative logic.
type Condition struct {
	ID     uuid.UUID `json:"id"`
	Logic  Logic     `json:"logic"`
	Target Target    `json:"target"`
}

// Empty reports whether the condition is the zero row, which is what a
// missing registry lookup produces. Empty conditions always evaluate to
// a non-completable status.
func (c Condition) Empty() bool {
	return c.Logic == "" && c.Target.Kind == ""
}

// Status is the result of evaluating one condition against one holder.
// It is always recomputed, never persisted.
type Status struct {
	Target      *int64 `json:"target,omitempty"`  // threshold echoed back for display
	Current     *int64 `json:"current,omitempty"` // resolved current or delta value
	Completable bool   `json:"completable"`
}

// Failed is the status of a condition that cannot be evaluated
// (missing row, malformed data). Fail closed.
func Failed() Status {
	return Status{Completable: false}
}
