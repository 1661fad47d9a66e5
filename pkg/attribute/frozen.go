package attribute

import (
	"context"
	"strings"
	"sync"
)

// Frozen wraps a Store so that repeated reads within one evaluation pass
// observe a single logical instant: every field and query result is
// served from the first read. A batch of conditions evaluated through a
// Frozen store cannot see a torn read even while the backing store is
// being updated by an unrelated write path, and the delta handlers reuse
// the exact current value the rest of the pass saw.
//
// A Frozen store is scoped to one pass and then discarded; it never
// invalidates.
type Frozen struct {
	inner Store

	mu      sync.Mutex
	fields  map[string]frozenField
	queries map[string][]string
}

type frozenField struct {
	value string
	ok    bool
}

// Ensure Frozen implements Store interface
var _ Store = (*Frozen)(nil)

// Freeze wraps a store for one evaluation pass.
func Freeze(s Store) *Frozen {
	return &Frozen{
		inner:   s,
		fields:  make(map[string]frozenField),
		queries: make(map[string][]string),
	}
}

func (f *Frozen) Ping(ctx context.Context) error {
	return f.inner.Ping(ctx)
}

func (f *Frozen) Close() error {
	return f.inner.Close()
}

func (f *Frozen) GetField(ctx context.Context, entityID, field string) (string, bool, error) {
	key := entityID + "\x00" + field

	f.mu.Lock()
	if cached, ok := f.fields[key]; ok {
		f.mu.Unlock()
		return cached.value, cached.ok, nil
	}
	f.mu.Unlock()

	value, ok, err := f.inner.GetField(ctx, entityID, field)
	if err != nil {
		return "", false, err
	}

	f.mu.Lock()
	f.fields[key] = frozenField{value: value, ok: ok}
	f.mu.Unlock()
	return value, ok, nil
}

// SetFields passes through. The evaluation path never writes; a write
// through a Frozen store is an authoring-flow mistake and is not masked.
func (f *Frozen) SetFields(ctx context.Context, entityID string, fields map[string]string) error {
	return f.inner.SetFields(ctx, entityID, fields)
}

func (f *Frozen) DeleteEntity(ctx context.Context, entityID string) error {
	return f.inner.DeleteEntity(ctx, entityID)
}

func (f *Frozen) QueryEntities(ctx context.Context, preds ...Predicate) ([]string, error) {
	var sb strings.Builder
	for _, p := range preds {
		sb.WriteString(p.Field)
		sb.WriteString("\x00")
		sb.WriteString(p.Value)
		sb.WriteString("\x00")
	}
	key := sb.String()

	f.mu.Lock()
	if ids, ok := f.queries[key]; ok {
		f.mu.Unlock()
		return ids, nil
	}
	f.mu.Unlock()

	ids, err := f.inner.QueryEntities(ctx, preds...)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.queries[key] = ids
	f.mu.Unlock()
	return ids, nil
}
