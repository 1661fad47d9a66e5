package attribute

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for testing and
// for the validation tooling, which compiles authored rows without a
// live backend.
type MemoryStore struct {
	mu        sync.RWMutex
	entities  map[string]map[string]string
	pingError error
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities: make(map[string]map[string]string),
	}
}

// SetPingError configures the store to fail on ping with the given error.
func (m *MemoryStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) GetField(ctx context.Context, entityID, field string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.entities[entityID]
	if !ok {
		return "", false, nil
	}
	value, ok := fields[field]
	return value, ok, nil
}

func (m *MemoryStore) SetFields(ctx context.Context, entityID string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entity, ok := m.entities[entityID]
	if !ok {
		entity = make(map[string]string, len(fields))
		m.entities[entityID] = entity
	}
	for k, v := range fields {
		entity[k] = v
	}
	return nil
}

func (m *MemoryStore) DeleteEntity(ctx context.Context, entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entities, entityID)
	return nil
}

func (m *MemoryStore) QueryEntities(ctx context.Context, preds ...Predicate) ([]string, error) {
	if len(preds) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, fields := range m.entities {
		match := true
		for _, p := range preds {
			if fields[p.Field] != p.Value {
				match = false
				break
			}
		}
		if match {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
