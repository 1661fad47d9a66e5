package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/registry"
)

// conditionFields are the stored fields a row is rebuilt from.
var conditionFields = []string{
	condition.FieldLogic,
	condition.FieldKind,
	condition.FieldKindIndex,
	condition.FieldValue,
	condition.FieldRef,
	condition.FieldSlot,
}

// SaveCondition writes a condition row into the store under its ownership
// pointer. Authoring-path only; the evaluator never calls this.
func SaveCondition(ctx context.Context, store attribute.Store, owner registry.Key, slot uint32, cond condition.Condition) error {
	fields := cond.Fields(owner.ID())
	fields[condition.FieldSlot] = strconv.FormatUint(uint64(slot), 10)
	if err := store.SetFields(ctx, cond.ID.String(), fields); err != nil {
		return fmt.Errorf("failed to save condition row %s slot %d: %w", owner, slot, err)
	}
	return nil
}

// LoadConditions returns every condition row under an ownership pointer,
// ordered by authored slot. Rows that cannot be read are skipped with a
// warning; a row that exists but is malformed still comes back (its
// fields coerce to zero values and it fails closed at evaluation).
func LoadConditions(ctx context.Context, store attribute.Store, owner registry.Key, logger *slog.Logger) ([]condition.Condition, error) {
	ids, err := store.QueryEntities(ctx,
		attribute.Predicate{Field: condition.FieldType, Value: condition.EntityType},
		attribute.Predicate{Field: condition.FieldOwner, Value: owner.ID().String()},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query condition rows for %s: %w", owner, err)
	}

	type slotted struct {
		slot uint32
		cond condition.Condition
	}
	rows := make([]slotted, 0, len(ids))
	for _, id := range ids {
		rowID, err := uuid.Parse(id)
		if err != nil {
			logger.Warn("condition row with unparseable id", "owner", owner.String(), "id", id)
			continue
		}
		fields, err := readFields(ctx, store, id, conditionFields)
		if err != nil {
			logger.Warn("failed to read condition row", "owner", owner.String(), "id", id, "error", err)
			continue
		}
		var slot uint32
		if n, err := strconv.ParseUint(fields[condition.FieldSlot], 10, 32); err == nil {
			slot = uint32(n)
		}
		rows = append(rows, slotted{slot: slot, cond: condition.FromFields(rowID, fields)})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].slot != rows[j].slot {
			return rows[i].slot < rows[j].slot
		}
		return rows[i].cond.ID.String() < rows[j].cond.ID.String()
	})

	conds := make([]condition.Condition, len(rows))
	for i, r := range rows {
		conds[i] = r.cond
	}
	return conds, nil
}

// LoadCondition returns the single row with the given identity, or the
// empty condition when the row is absent. The empty condition fails
// closed at evaluation.
func LoadCondition(ctx context.Context, store attribute.Store, id uuid.UUID) condition.Condition {
	fields, err := readFields(ctx, store, id.String(), conditionFields)
	if err != nil {
		return condition.Condition{}
	}
	if fields[condition.FieldLogic] == "" && fields[condition.FieldKind] == "" {
		return condition.Condition{}
	}
	return condition.FromFields(id, fields)
}

func readFields(ctx context.Context, store attribute.Store, entityID string, names []string) (map[string]string, error) {
	fields := make(map[string]string, len(names))
	for _, name := range names {
		value, ok, err := store.GetField(ctx, entityID, name)
		if err != nil {
			return nil, err
		}
		if ok {
			fields[name] = value
		}
	}
	return fields, nil
}
