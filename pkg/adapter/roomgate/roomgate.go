// Package roomgate blocks room transitions behind authored condition
// rows keyed by the destination room index.
package roomgate

import (
	"context"
	"log/slog"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/engine"
	"github.com/kamiworld/engine/pkg/holder"
	"github.com/kamiworld/engine/pkg/registry"
)

// NamespaceGate owns the transition gates for rooms.
const NamespaceGate = "room.gate"

// Adapter evaluates room transition gates.
type Adapter struct {
	store  attribute.Store
	eval   *engine.Evaluator
	logger *slog.Logger
}

// New creates a room gate adapter over the given attribute store.
func New(store attribute.Store, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		eval:   engine.New(store, logger),
		logger: logger,
	}
}

// Gates returns the authored gates of a destination room.
func (a *Adapter) Gates(ctx context.Context, roomIndex uint32) ([]condition.Condition, error) {
	return engine.LoadConditions(ctx, a.store, registry.NewKey(NamespaceGate, roomIndex), a.logger)
}

// CanEnter reports whether the holder passes every gate on the
// destination room. Ungated rooms are open.
func (a *Adapter) CanEnter(ctx context.Context, roomIndex uint32, h holder.Holder) (bool, error) {
	gates, err := a.Gates(ctx, roomIndex)
	if err != nil {
		return false, err
	}
	ok := a.eval.PassesAll(ctx, gates, h)
	if !ok {
		a.logger.Debug("room transition blocked", "room", roomIndex, "holder", h.HolderID())
	}
	return ok, nil
}
