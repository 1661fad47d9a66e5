// Package quest gates quest acceptance on requirement rows and tracks
// objective progress, recording snapshots for delta objectives at
// acceptance time.
package quest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/engine"
	"github.com/kamiworld/engine/pkg/holder"
	"github.com/kamiworld/engine/pkg/registry"
)

// Registry namespaces owned by this adapter.
const (
	NamespaceRequirement = "quest.requirement"
	NamespaceObjective   = "quest.objective"
)

// Adapter evaluates quest requirements and objectives for holders.
type Adapter struct {
	store  attribute.Store
	eval   *engine.Evaluator
	snaps  *engine.Snapshots
	logger *slog.Logger
}

// New creates a quest adapter over the given attribute store.
func New(store attribute.Store, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		eval:   engine.New(store, logger),
		snaps:  engine.NewSnapshots(store, logger),
		logger: logger,
	}
}

// Requirements returns the acceptance requirements of a quest.
func (a *Adapter) Requirements(ctx context.Context, questIndex uint32) ([]condition.Condition, error) {
	return engine.LoadConditions(ctx, a.store, registry.NewKey(NamespaceRequirement, questIndex), a.logger)
}

// Objectives returns the completion objectives of a quest.
func (a *Adapter) Objectives(ctx context.Context, questIndex uint32) ([]condition.Condition, error) {
	return engine.LoadConditions(ctx, a.store, registry.NewKey(NamespaceObjective, questIndex), a.logger)
}

// CanAccept reports whether the holder meets every acceptance
// requirement. A quest with no authored requirements is open to all.
func (a *Adapter) CanAccept(ctx context.Context, questIndex uint32, h holder.Holder) (bool, error) {
	reqs, err := a.Requirements(ctx, questIndex)
	if err != nil {
		return false, err
	}
	return a.eval.PassesAll(ctx, reqs, h), nil
}

// Accept assigns the quest's objectives to a holder by recording a
// snapshot of every delta objective's tracked counter. Existence of the
// snapshots is what marks the holder as tracking; there is no separate
// acceptance record.
func (a *Adapter) Accept(ctx context.Context, questIndex uint32, h holder.Holder) error {
	ok, err := a.CanAccept(ctx, questIndex, h)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("holder %s does not meet requirements for quest %d", h.HolderID(), questIndex)
	}

	objectives, err := a.Objectives(ctx, questIndex)
	if err != nil {
		return err
	}
	for _, obj := range objectives {
		if !obj.Logic.IsDelta() {
			continue
		}
		current := a.eval.Current(ctx, obj.Target, h)
		if err := a.snaps.Record(ctx, obj.ID, h.HolderID(), current); err != nil {
			return fmt.Errorf("failed to start tracking quest %d: %w", questIndex, err)
		}
		a.logger.Debug("recorded objective snapshot",
			"quest", questIndex, "objective", obj.ID, "holder", h.HolderID(), "value", current)
	}
	return nil
}

// Progress returns the itemized status of every objective, for display.
func (a *Adapter) Progress(ctx context.Context, questIndex uint32, h holder.Holder) ([]condition.Status, error) {
	objectives, err := a.Objectives(ctx, questIndex)
	if err != nil {
		return nil, err
	}
	return a.eval.EvaluateAll(ctx, objectives, h), nil
}

// IsComplete reports whether the holder satisfies every objective.
func (a *Adapter) IsComplete(ctx context.Context, questIndex uint32, h holder.Holder) (bool, error) {
	objectives, err := a.Objectives(ctx, questIndex)
	if err != nil {
		return false, err
	}
	return a.eval.PassesAll(ctx, objectives, h), nil
}
