// Package engine evaluates authored conditions against holders. It is
// the single interpreter shared by every subsystem that gates on player
// state: quest objectives, requirement checks, room gates, and reward
// resolution all route through Evaluate and the aggregation helpers.
//
// The engine is synchronous, holds no mutable state, and never writes to
// the attribute store. Malformed or absent data degrades to zero/false;
// nothing on the evaluation path returns an error or panics.
package engine

import (
	"context"
	"log/slog"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/holder"
)

// Evaluator resolves conditions against holders using current values
// from the attribute store.
type Evaluator struct {
	store  attribute.Store
	logger *slog.Logger
}

// New creates an evaluator over the given attribute store.
func New(store attribute.Store, logger *slog.Logger) *Evaluator {
	return &Evaluator{store: store, logger: logger}
}

// Evaluate resolves a single condition against a holder.
func (e *Evaluator) Evaluate(ctx context.Context, cond condition.Condition, h holder.Holder) condition.Status {
	return e.evaluate(ctx, e.store, cond, h)
}

// EvaluateAll resolves every condition in the list, in order, against one
// frozen view of the store so the batch observes a single logical
// instant. Every condition is evaluated even after a failure; progress
// displays need the full itemized list.
func (e *Evaluator) EvaluateAll(ctx context.Context, conds []condition.Condition, h holder.Holder) []condition.Status {
	frozen := attribute.Freeze(e.store)
	statuses := make([]condition.Status, len(conds))
	for i, cond := range conds {
		statuses[i] = e.evaluate(ctx, frozen, cond, h)
	}
	return statuses
}

// PassesAll reports whether every condition is completable. The empty
// list is vacuously true. Evaluation short-circuits on the first
// failure; resolvers are read-only so skipping the rest is safe.
func (e *Evaluator) PassesAll(ctx context.Context, conds []condition.Condition, h holder.Holder) bool {
	frozen := attribute.Freeze(e.store)
	for _, cond := range conds {
		if !e.evaluate(ctx, frozen, cond, h).Completable {
			return false
		}
	}
	return true
}

// Current resolves the present value of a target against a holder.
// Domain adapters use it to record snapshots at objective-assignment
// time so the later delta reads compare against the same quantity.
func (e *Evaluator) Current(ctx context.Context, t condition.Target, h holder.Holder) int64 {
	q := &quantities{store: e.store, logger: e.logger}
	return q.current(ctx, t, h)
}

func (e *Evaluator) evaluate(ctx context.Context, store attribute.Store, cond condition.Condition, h holder.Holder) condition.Status {
	if cond.Empty() {
		// Missing registry row: fail closed.
		return condition.Failed()
	}

	hdl, op, ok := cond.Logic.Split()
	if !ok {
		// Documented fallback: unrecognized handler prefixes evaluate as
		// current-value checks with the residual operator.
		e.logger.Warn("unrecognized logic handler, falling back to current-value",
			"logic", cond.Logic, "condition", cond.ID)
		hdl = condition.HandlerCurrent
	}

	q := &quantities{store: store, logger: e.logger}

	switch hdl {
	case condition.HandlerCurrent:
		return numericStatus(q.current(ctx, cond.Target, h), cond.Target.Value, op)

	case condition.HandlerIncrease, condition.HandlerDecrease:
		// Both reads go through the same store view; within EvaluateAll
		// the current value here is the one the rest of the pass sees.
		current := q.current(ctx, cond.Target, h)
		snaps := &Snapshots{store: store, logger: e.logger}
		recorded := snaps.Read(ctx, cond.ID, h.HolderID())

		delta := current - recorded
		if hdl == condition.HandlerDecrease {
			delta = recorded - current
		}
		return numericStatus(delta, cond.Target.Value, op)

	case condition.HandlerBoolean:
		fact := q.fact(ctx, cond.Target, h)
		switch op {
		case condition.OpIs:
			return condition.Status{Completable: fact}
		case condition.OpNot:
			return condition.Status{Completable: !fact}
		default:
			// MIN/MAX/EQUAL are not meaningful for boolean facts.
			e.logger.Warn("numeric operator on boolean condition",
				"logic", cond.Logic, "condition", cond.ID)
			return condition.Failed()
		}
	}

	return condition.Failed()
}

// numericStatus applies a numeric operator and echoes both sides back for
// progress display. IS/NOT and unknown operators fail closed on numbers.
func numericStatus(current, target int64, op condition.Operator) condition.Status {
	st := condition.Status{Target: &target, Current: &current}
	switch op {
	case condition.OpMin:
		st.Completable = current >= target
	case condition.OpMax:
		st.Completable = current <= target
	case condition.OpEqual:
		st.Completable = current == target
	default:
		st.Completable = false
	}
	return st
}
