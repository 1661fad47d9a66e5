// Package item gates item use on requirement rows.
package item

import (
	"context"
	"log/slog"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/engine"
	"github.com/kamiworld/engine/pkg/holder"
	"github.com/kamiworld/engine/pkg/registry"
)

// NamespaceRequirement owns the use-requirement rows for items.
const NamespaceRequirement = "item.requirement"

// Adapter evaluates item use requirements.
type Adapter struct {
	store  attribute.Store
	eval   *engine.Evaluator
	logger *slog.Logger
}

// New creates an item adapter over the given attribute store.
func New(store attribute.Store, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		eval:   engine.New(store, logger),
		logger: logger,
	}
}

// Requirements returns the use-requirement rows of an item.
func (a *Adapter) Requirements(ctx context.Context, itemIndex uint32) ([]condition.Condition, error) {
	return engine.LoadConditions(ctx, a.store, registry.NewKey(NamespaceRequirement, itemIndex), a.logger)
}

// CanUse reports whether the holder meets every use requirement. Items
// with no authored rows are usable by anyone.
func (a *Adapter) CanUse(ctx context.Context, itemIndex uint32, h holder.Holder) (bool, error) {
	reqs, err := a.Requirements(ctx, itemIndex)
	if err != nil {
		return false, err
	}
	return a.eval.PassesAll(ctx, reqs, h), nil
}

// Statuses returns the itemized requirement statuses, for display.
func (a *Adapter) Statuses(ctx context.Context, itemIndex uint32, h holder.Holder) ([]condition.Status, error) {
	reqs, err := a.Requirements(ctx, itemIndex)
	if err != nil {
		return nil, err
	}
	return a.eval.EvaluateAll(ctx, reqs, h), nil
}
