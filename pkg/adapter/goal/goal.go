// Package goal tracks community goal contributions and the claim state
// machine: uncontributed, contributed once the score is positive, and
// claimed once the reward has been taken. Claimed is terminal.
package goal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/engine"
	"github.com/kamiworld/engine/pkg/holder"
	"github.com/kamiworld/engine/pkg/registry"
)

// NamespaceRequirement owns the eligibility rows for goal claims.
const NamespaceRequirement = "goal.requirement"

// ContributionKind is the counter kind the game-action layer increments
// when a holder contributes. It is not part of the engine's built-in
// vocabulary; resolution goes through the generic counter seam.
const ContributionKind = condition.Kind("GOAL")

// State is a holder's position in the claim lifecycle.
type State string

const (
	Uncontributed State = "uncontributed"
	Contributed   State = "contributed"
	Claimed       State = "claimed"
)

var (
	ErrNotEligible    = errors.New("goal requirements not met")
	ErrNothingToClaim = errors.New("no contribution to claim")
	ErrAlreadyClaimed = errors.New("goal reward already claimed")
)

// Adapter evaluates goal eligibility and drives the claim lifecycle.
type Adapter struct {
	store  attribute.Store
	eval   *engine.Evaluator
	logger *slog.Logger
}

// New creates a goal adapter over the given attribute store.
func New(store attribute.Store, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		eval:   engine.New(store, logger),
		logger: logger,
	}
}

// Requirements returns the claim eligibility rows of a goal.
func (a *Adapter) Requirements(ctx context.Context, goalIndex uint32) ([]condition.Condition, error) {
	return engine.LoadConditions(ctx, a.store, registry.NewKey(NamespaceRequirement, goalIndex), a.logger)
}

// Score returns the holder's contribution counter for the goal.
func (a *Adapter) Score(ctx context.Context, goalIndex uint32, h holder.Holder) int64 {
	return attribute.GetInt(ctx, a.store, h.HolderID(), engine.CounterField(ContributionKind, goalIndex))
}

// State returns the holder's position in the claim lifecycle.
func (a *Adapter) State(ctx context.Context, goalIndex uint32, h holder.Holder) State {
	claim := registry.ClaimID(registry.NewKey(NamespaceRequirement, goalIndex), h.HolderID())
	if attribute.GetBool(ctx, a.store, claim.String(), engine.CompletedField) {
		return Claimed
	}
	if a.Score(ctx, goalIndex, h) > 0 {
		return Contributed
	}
	return Uncontributed
}

// CanClaim reports whether the holder may claim the goal reward: a
// positive contribution, an unclaimed state, and every eligibility row
// passing.
func (a *Adapter) CanClaim(ctx context.Context, goalIndex uint32, h holder.Holder) error {
	switch a.State(ctx, goalIndex, h) {
	case Claimed:
		return ErrAlreadyClaimed
	case Uncontributed:
		return ErrNothingToClaim
	}

	reqs, err := a.Requirements(ctx, goalIndex)
	if err != nil {
		return err
	}
	if !a.eval.PassesAll(ctx, reqs, h) {
		return ErrNotEligible
	}
	return nil
}

// Claim marks the holder's contribution as claimed. The marker is never
// unset; a second claim fails with ErrAlreadyClaimed.
func (a *Adapter) Claim(ctx context.Context, goalIndex uint32, h holder.Holder) error {
	if err := a.CanClaim(ctx, goalIndex, h); err != nil {
		return err
	}

	claim := registry.ClaimID(registry.NewKey(NamespaceRequirement, goalIndex), h.HolderID())
	err := a.store.SetFields(ctx, claim.String(), map[string]string{
		engine.CompletedField: "true",
	})
	if err != nil {
		return fmt.Errorf("failed to record goal claim: %w", err)
	}

	a.logger.Info("goal reward claimed", "goal", goalIndex, "holder", h.HolderID())
	return nil
}
