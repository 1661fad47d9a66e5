package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kamiworld/engine/pkg/holder"
)

// Holder views (filesystem-backed). Accounts and kami are read views of
// replicated world state; tooling loads them from JSON files under
// <dataDir>/accounts and <dataDir>/kami.

func (r *RedisStore) ListAccounts(ctx context.Context) ([]string, error) {
	accountsDir := filepath.Join(r.dataDir, "accounts")
	var names []string

	err := filepath.WalkDir(accountsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		base := filepath.Base(path)
		names = append(names, base[:len(base)-len(".json")])
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to walk accounts directory", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return names, nil
}

func (r *RedisStore) LoadAccount(ctx context.Context, name string) (*holder.Account, error) {
	path := filepath.Join(r.dataDir, "accounts", name+".json")
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("Account file not found", "name", name)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read account file: %w", err)
	}

	var a holder.Account
	if err := json.Unmarshal(file, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account %s: %w", name, err)
	}
	if a.ID == "" {
		a.ID = "account:" + name
	}
	return &a, nil
}

func (r *RedisStore) LoadKami(ctx context.Context, name string) (*holder.Kami, error) {
	path := filepath.Join(r.dataDir, "kami", name+".json")
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Warn("Kami file not found", "name", name)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read kami file: %w", err)
	}

	var k holder.Kami
	if err := json.Unmarshal(file, &k); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kami %s: %w", name, err)
	}
	if k.ID == "" {
		k.ID = "kami:" + name
	}
	return &k, nil
}
