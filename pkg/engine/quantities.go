package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/holder"
)

// CompletedField is the marker field a registry row carries once the
// game-action layer has completed it. COMPLETE_COMP and goal claims
// both test it.
const CompletedField = "completed"

// CounterField is the attribute-store field holding the generic lifetime
// counter for a (kind, index) pair on a holder entity. COIN ignores the
// index. The game-action layer writes these fields; the engine and the
// domain adapters only read them.
func CounterField(kind condition.Kind, index uint32) string {
	if kind == condition.KindCoin {
		index = 0
	}
	return fmt.Sprintf("counter:%s:%d", kind, index)
}

// quantities resolves (kind, index) pairs to current values for one
// holder. It is constructed per evaluation pass so that delta handlers
// and batch evaluation share one frozen view of the store.
type quantities struct {
	store  attribute.Store
	logger *slog.Logger
}

// current resolves the numeric value of a target against a holder.
// Shape-specific kinds answer through capability interfaces and read as
// zero on shapes that lack the capability; unrecognized kinds fall
// through to the generic counter. The result is always a defined number.
func (q *quantities) current(ctx context.Context, t condition.Target, h holder.Holder) int64 {
	switch t.Kind {
	case condition.KindCoin:
		return attribute.GetInt(ctx, q.store, h.HolderID(), CounterField(condition.KindCoin, 0))
	case condition.KindItem:
		if inv, ok := h.(holder.HasInventory); ok {
			return inv.ItemBalance(t.Index)
		}
		return 0
	case condition.KindSkill:
		if sk, ok := h.(holder.HasSkills); ok {
			return sk.SkillLevel(t.Index)
		}
		return 0
	case condition.KindKami:
		if k, ok := h.(holder.HasKamis); ok {
			return k.KamiCount()
		}
		return 0
	case condition.KindRoom:
		if loc, ok := h.(holder.HasLocation); ok {
			return int64(loc.RoomIndex())
		}
		return 0
	case condition.KindLevel:
		if lv, ok := h.(holder.HasLevel); ok {
			return lv.Level()
		}
		return 0
	case condition.KindQuest, condition.KindCompleteComp:
		if q.fact(ctx, t, h) {
			return 1
		}
		return 0
	default:
		// Extensibility seam: any counter present in the store works
		// without an engine change.
		return attribute.GetInt(ctx, q.store, h.HolderID(), CounterField(t.Kind, t.Index))
	}
}

// fact resolves the boolean value of a target against a holder.
func (q *quantities) fact(ctx context.Context, t condition.Target, h holder.Holder) bool {
	switch t.Kind {
	case condition.KindRoom:
		loc, ok := h.(holder.HasLocation)
		return ok && int64(loc.RoomIndex()) == t.Value
	case condition.KindQuest:
		log, ok := h.(holder.HasQuestLog)
		return ok && log.QuestCompleted(t.Index)
	case condition.KindCompleteComp:
		if t.Ref == uuid.Nil {
			q.logger.Warn("completion condition without a ref", "kind", t.Kind)
			return false
		}
		return attribute.GetBool(ctx, q.store, t.Ref.String(), CompletedField)
	default:
		return attribute.GetInt(ctx, q.store, h.HolderID(), CounterField(t.Kind, t.Index)) != 0
	}
}
