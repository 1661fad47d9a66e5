// Package listing gates trades against authored requirement rows and the
// listing's coin price.
package listing

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
	NamespaceRequirement = "listing.requirement"
	NamespaceRegistry    = "listing.registry"
)

// PriceField is the authored coin price on a listing's registry entry.
const PriceField = "price"

var (
	ErrGated        = errors.New("listing requirements not met")
	ErrCannotAfford = errors.New("cannot afford listing")
)

// Adapter evaluates trade listing gates.
type Adapter struct {
	store  attribute.Store
	eval   *engine.Evaluator
	logger *slog.Logger
}

// New creates a listing adapter over the given attribute store.
func New(store attribute.Store, logger *slog.Logger) *Adapter {
	return &Adapter{
		store:  store,
		eval:   engine.New(store, logger),
		logger: logger,
	}
}

// Requirements returns the trade requirement rows of a listing.
func (a *Adapter) Requirements(ctx context.Context, listingIndex uint32) ([]condition.Condition, error) {
	return engine.LoadConditions(ctx, a.store, registry.NewKey(NamespaceRequirement, listingIndex), a.logger)
}

// Price returns the authored coin price of a listing. An unauthored
// price reads as zero.
func (a *Adapter) Price(ctx context.Context, listingIndex uint32) int64 {
	entry := registry.NewKey(NamespaceRegistry, listingIndex)
	return attribute.GetInt(ctx, a.store, entry.ID().String(), PriceField)
}

// CanBuy reports whether the holder may buy from the listing: every
// requirement row passing and a coin balance covering the price.
func (a *Adapter) CanBuy(ctx context.Context, listingIndex uint32, h holder.Holder) error {
	reqs, err := a.Requirements(ctx, listingIndex)
	if err != nil {
		return err
	}
	if !a.eval.PassesAll(ctx, reqs, h) {
		return ErrGated
	}

	price := a.Price(ctx, listingIndex)
	coins := a.eval.Current(ctx, condition.Target{Kind: condition.KindCoin}, h)
	if coins < price {
		return ErrCannotAfford
	}
	return nil
}
