// Seed writes authored condition rows into the attribute store. It is
// the admin-tooling side of the registry: content is compiled through
// the same translation the runtime readers use, so the operator-word
// table exists in exactly one place.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kamiworld/engine/internal/config"
	"github.com/kamiworld/engine/internal/logger"
	"github.com/kamiworld/engine/internal/storage"
	"github.com/kamiworld/engine/pkg/condition"
	"github.com/kamiworld/engine/pkg/engine"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <rows.json> [rows.json ...]\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg)

	store, err := storage.NewRedisStore(cfg.RedisURL, cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to create store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close store", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		log.Error("Failed to connect to store", "error", err)
		os.Exit(1)
	}

	total := 0
	for _, filename := range os.Args[1:] {
		n, err := seedFile(ctx, store, filename)
		if err != nil {
			log.Error("Seeding failed", "file", filename, "error", err)
			os.Exit(1)
		}
		log.Info("Seeded condition rows", "file", filename, "rows", n)
		total += n
	}
	fmt.Printf("Seeded %d condition rows\n", total)
}

func seedFile(ctx context.Context, store *storage.RedisStore, filename string) (int, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var rows []condition.AuthoredRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	for i, row := range rows {
		owner, cond, err := row.Compile()
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		if err := engine.SaveCondition(ctx, store, owner, row.Slot, cond); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return len(rows), nil
}
