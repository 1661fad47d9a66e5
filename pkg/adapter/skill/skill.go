// Package skill gates skill upgrades on requirement rows and a coin
// cost authored on the skill's registry entry.
package skill

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/engine"
	"github.com/kamiworld/engine/pkg/holder"
	"github.com/kamiworld/engine/pkg/registry"
)

// Registry namespaces owned by this adapter.
const (
	NamespaceRequirement = "skill.requirement"
	NamespaceRegistry    = "skill.registry"
)

// CostField is the authored coin cost on a skill's registry entry.
const CostField = "cost"

var (
	ErrRequirementsNotMet = errors.New("skill requirements not met")
	ErrCannotAfford       = errors.New("cannot afford skill")
)

// Adapter evaluates skill upgrade gates.
type Adapter struct {
	store  attribute.Store
	eval   *engine.Evaluator
	logger *slog.Logger
}

// New creates a skill adapter over the given attribute store.
func New(store attribute.Store, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		eval:   engine.New(store, logger),
		logger: logger,
	}
}

// Requirements returns the upgrade requirement rows of a skill.
func (a *Adapter) Requirements(ctx context.Context, skillIndex uint32) ([]condition.Condition, error) {
	return engine.LoadConditions(ctx, a.store, registry.NewKey(NamespaceRequirement, skillIndex), a.logger)
}

// Cost returns the authored coin cost of a skill. An unauthored cost
// reads as zero, making the skill free.
func (a *Adapter) Cost(ctx context.Context, skillIndex uint32) int64 {
	entry := registry.NewKey(NamespaceRegistry, skillIndex)
	return attribute.GetInt(ctx, a.store, entry.ID().String(), CostField)
}

// Upgradeable reports whether the holder may take the skill upgrade,
// and why not otherwise: ErrRequirementsNotMet for a failed requirement
// row, ErrCannotAfford for an insufficient coin balance.
func (a *Adapter) Upgradeable(ctx context.Context, skillIndex uint32, h holder.Holder) error {
	reqs, err := a.Requirements(ctx, skillIndex)
	if err != nil {
		return err
	}
	if !a.eval.PassesAll(ctx, reqs, h) {
		return ErrRequirementsNotMet
	}

	cost := a.Cost(ctx, skillIndex)
	coins := a.eval.Current(ctx, condition.Target{Kind: condition.KindCoin}, h)
	if coins < cost {
		return ErrCannotAfford
	}
	return nil
}
