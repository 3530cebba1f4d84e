package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/config"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

const (
	runLockKey      = "repricer:run_lock"
	batchSummaryKey = "repricer:last_batch"

	// summaryTTL keeps the last batch summary readable long enough to cover a
	// weekend of unattended runs.
	summaryTTL = 7 * 24 * time.Hour
)

// Cache wraps Redis for the run lock and the latest batch summary. A nil
// *Cache is valid and degrades to lockless single-instance behaviour, so
// callers never need to branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCache connects to Redis and verifies the connection.
func NewCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", cfg.Addr))
	return &Cache{client: client, logger: logger}, nil
}

// AcquireRunLock attempts to take the repricing run lock for the given batch.
// Returns false when another run already holds it.
func (c *Cache) AcquireRunLock(ctx context.Context, batchID string, ttl time.Duration) (bool, error) {
	if c == nil {
		return true, nil
	}

	acquired, err := c.client.SetNX(ctx, runLockKey, batchID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !acquired {
		c.logger.Debug("run lock already held", zap.String("batch_id", batchID))
	}
	return acquired, nil
}

// ReleaseRunLock drops the repricing run lock.
func (c *Cache) ReleaseRunLock(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if err := c.client.Del(ctx, runLockKey).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// SetBatchSummary caches the outcome of the most recent repricing run.
func (c *Cache) SetBatchSummary(ctx context.Context, summary models.BatchSummary) error {
	if c == nil {
		return nil
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode batch summary: %w", err)
	}
	if err := c.client.Set(ctx, batchSummaryKey, payload, summaryTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache batch summary: %w", err)
	}
	return nil
}

// LatestBatchSummary returns the cached summary of the most recent run. The
// second return value reports whether a summary was present.
func (c *Cache) LatestBatchSummary(ctx context.Context) (models.BatchSummary, bool, error) {
	if c == nil {
		return models.BatchSummary{}, false, nil
	}

	payload, err := c.client.Get(ctx, batchSummaryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.BatchSummary{}, false, nil
	}
	if err != nil {
		return models.BatchSummary{}, false, fmt.Errorf("failed to read batch summary: %w", err)
	}

	var summary models.BatchSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return models.BatchSummary{}, false, fmt.Errorf("failed to decode batch summary: %w", err)
	}
	return summary, true, nil
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
