// Package storage provides the Redis-backed attribute store. Entity
// fields live in hashes; secondary index sets keep QueryEntities a set
// intersection instead of a scan. Holder views (accounts, kami) are
// loaded from filesystem JSON, mirroring how authored content ships.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kamiworld/engine/pkg/attribute"
)

// RedisStore implements attribute.Store using Redis for entity fields
// and the filesystem for holder views.
type RedisStore struct {
	client  *redis.Client
	logger  *slog.Logger
	dataDir string
}

// Ensure RedisStore implements the attribute store interface
var _ attribute.Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis store instance.
func NewRedisStore(redisURL string, dataDir string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if dataDir == "" {
		dataDir = "./data"
	}

	return &RedisStore{
		client:  redis.NewClient(opt),
		logger:  logger,
		dataDir: dataDir,
	}, nil
}

func entityKey(entityID string) string {
	return "entity:" + entityID
}

func indexKey(field, value string) string {
	return "idx:" + field + ":" + value
}

// Health and lifecycle methods

func (r *RedisStore) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Attribute store methods

func (r *RedisStore) GetField(ctx context.Context, entityID, field string) (string, bool, error) {
	cmd := r.client.HGet(ctx, entityKey(entityID), field)
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		r.logger.Error("Failed to read entity field", "entity", entityID, "field", field, "error", err)
		return "", false, fmt.Errorf("failed to read field %s on %s: %w", field, entityID, err)
	}
	return cmd.Val(), true, nil
}

func (r *RedisStore) SetFields(ctx context.Context, entityID string, fields map[string]string) error {
	key := entityKey(entityID)

	// Drop stale index memberships before overwriting.
	for field, value := range fields {
		old, err := r.client.HGet(ctx, key, field).Result()
		if err != nil {
			if err != redis.Nil {
				return fmt.Errorf("failed to read old value of %s on %s: %w", field, entityID, err)
			}
			continue
		}
		if old == value {
			continue
		}
		if err := r.client.SRem(ctx, indexKey(field, old), entityID).Err(); err != nil {
			return fmt.Errorf("failed to unindex %s on %s: %w", field, entityID, err)
		}
	}

	pipe := r.client.TxPipeline()
	flat := make([]string, 0, len(fields)*2)
	for field, value := range fields {
		flat = append(flat, field, value)
		pipe.SAdd(ctx, indexKey(field, value), entityID)
	}
	pipe.HSet(ctx, key, flat)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to write entity fields", "entity", entityID, "error", err)
		return fmt.Errorf("failed to write fields on %s: %w", entityID, err)
	}
	return nil
}

func (r *RedisStore) DeleteEntity(ctx context.Context, entityID string) error {
	key := entityKey(entityID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to read entity %s for deletion: %w", entityID, err)
	}

	pipe := r.client.TxPipeline()
	for field, value := range fields {
		pipe.SRem(ctx, indexKey(field, value), entityID)
	}
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete entity", "entity", entityID, "error", err)
		return fmt.Errorf("failed to delete entity %s: %w", entityID, err)
	}
	return nil
}

func (r *RedisStore) QueryEntities(ctx context.Context, preds ...attribute.Predicate) ([]string, error) {
	if len(preds) == 0 {
		return nil, nil
	}

	keys := make([]string, len(preds))
	for i, p := range preds {
		keys[i] = indexKey(p.Field, p.Value)
	}

	ids, err := r.client.SInter(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("Failed to query entities", "predicates", len(preds), "error", err)
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	return ids, nil
}

// GetClient returns the underlying Redis client for direct operations
func (r *RedisStore) GetClient() *redis.Client {
	return r.client
}
