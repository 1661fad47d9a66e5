package attribute

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_SetAndGetField(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.SetFields(ctx, "entity-1", map[string]string{"type": "condition", "value": "5"})
	if err != nil {
		t.Fatalf("Failed to set fields: %v", err)
	}

	value, ok, err := store.GetField(ctx, "entity-1", "value")
	if err != nil {
		t.Fatalf("Failed to get field: %v", err)
	}
	if !ok || value != "5" {
		t.Errorf("Expected value '5', got %q (present=%v)", value, ok)
	}

	_, ok, err = store.GetField(ctx, "entity-1", "missing")
	if err != nil {
		t.Fatalf("Unexpected error for absent field: %v", err)
	}
	if ok {
		t.Error("Absent field should not be present")
	}

	_, ok, _ = store.GetField(ctx, "no-such-entity", "value")
	if ok {
		t.Error("Absent entity should not be present")
	}
}

func TestMemoryStore_QueryEntities(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entities := map[string]map[string]string{
		"a": {"type": "condition", "owner": "x"},
		"b": {"type": "condition", "owner": "y"},
		"c": {"type": "snapshot", "owner": "x"},
	}
	for id, fields := range entities {
		if err := store.SetFields(ctx, id, fields); err != nil {
			t.Fatalf("Failed to set fields: %v", err)
		}
	}

	ids, err := store.QueryEntities(ctx,
		Predicate{Field: "type", Value: "condition"},
		Predicate{Field: "owner", Value: "x"},
	)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("Expected [a], got %v", ids)
	}

	ids, err = store.QueryEntities(ctx)
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Empty predicate list should match nothing, got %v", ids)
	}
}

func TestMemoryStore_DeleteEntity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetFields(ctx, "a", map[string]string{"type": "condition"}); err != nil {
		t.Fatalf("Failed to set fields: %v", err)
	}
	if err := store.DeleteEntity(ctx, "a"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	ids, err := store.QueryEntities(ctx, Predicate{Field: "type", Value: "condition"})
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Deleted entity should not match queries, got %v", ids)
	}
}

func TestMemoryStore_PingError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Expected ping to succeed: %v", err)
	}

	store.SetPingError(errors.New("down"))
	if err := store.Ping(ctx); err == nil {
		t.Error("Expected ping to fail")
	}
}

func TestGetInt_Coercion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetFields(ctx, "h", map[string]string{"good": "42", "bad": "forty-two"}); err != nil {
		t.Fatalf("Failed to set fields: %v", err)
	}

	if got := GetInt(ctx, store, "h", "good"); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if got := GetInt(ctx, store, "h", "bad"); got != 0 {
		t.Errorf("Malformed value should read as 0, got %d", got)
	}
	if got := GetInt(ctx, store, "h", "absent"); got != 0 {
		t.Errorf("Absent value should read as 0, got %d", got)
	}
}

func TestGetBool_Coercion(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetFields(ctx, "h", map[string]string{"yes": "true", "garbage": "yep"}); err != nil {
		t.Fatalf("Failed to set fields: %v", err)
	}

	if !GetBool(ctx, store, "h", "yes") {
		t.Error("Expected true")
	}
	if GetBool(ctx, store, "h", "garbage") {
		t.Error("Malformed value should read as false")
	}
	if GetBool(ctx, store, "h", "absent") {
		t.Error("Absent value should read as false")
	}
}
