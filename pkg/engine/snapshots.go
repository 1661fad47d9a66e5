package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"github.com/kamiworld/engine/pkg/attribute"
	"github.com/kamiworld/engine/pkg/registry"
)

// Snapshot entity field names.
const (
	snapshotEntityType = "snapshot"

	snapshotFieldType   = "type"
	snapshotFieldRow    = "row"
	snapshotFieldHolder = "holder"
	snapshotFieldValue  = "value"
)

// Snapshots records and reads the durable counter values delta objectives
// compare against. A snapshot is addressed deterministically by
// (owning row id, holder id); a holder that has one is implicitly
// tracking the objective. Adapters record at assignment time; the
// evaluator only ever reads.
type Snapshots struct {
	store  attribute.Store
	logger *slog.Logger
}

// NewSnapshots creates a snapshot store over the given attribute store.
func NewSnapshots(store attribute.Store, logger *slog.Logger) *Snapshots {
	return &Snapshots{store: store, logger: logger}
}

// Record writes the reference value for (row, holder).
func (s *Snapshots) Record(ctx context.Context, row uuid.UUID, holderID string, value int64) error {
	id := registry.SnapshotID(row, holderID)
	err := s.store.SetFields(ctx, id.String(), map[string]string{
		snapshotFieldType:   snapshotEntityType,
		snapshotFieldRow:    row.String(),
		snapshotFieldHolder: holderID,
		snapshotFieldValue:  strconv.FormatInt(value, 10),
	})
	if err != nil {
		return fmt.Errorf("failed to record snapshot for row %s: %w", row, err)
	}
	return nil
}

// Read returns the recorded value for (row, holder). A missing snapshot
// reads as zero, which inflates the computed delta for holders that never
// accepted the owning objective; the debug log keeps that visible.
func (s *Snapshots) Read(ctx context.Context, row uuid.UUID, holderID string) int64 {
	id := registry.SnapshotID(row, holderID)
	raw, ok, err := s.store.GetField(ctx, id.String(), snapshotFieldValue)
	if err != nil {
		s.logger.Warn("snapshot read failed, reading as zero", "row", row, "holder", holderID, "error", err)
		return 0
	}
	if !ok {
		s.logger.Debug("no snapshot recorded, reading as zero", "row", row, "holder", holderID)
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.Warn("malformed snapshot value, reading as zero", "row", row, "holder", holderID, "raw", raw)
		return 0
	}
	return value
}
