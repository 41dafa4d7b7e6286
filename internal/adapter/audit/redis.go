package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MikeRez0/tgshop/internal/core/domain"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisLog keeps the webhook log in a capped Redis list so it is shared by replicas.
type RedisLog struct {
	client     *redis.Client
	key        string
	maxEntries int64
	logger     *zap.Logger
}

func NewRedisLog(ctx context.Context, redisURL, key string, maxEntries int, logger *zap.Logger) (*RedisLog, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return newRedisLog(client, key, maxEntries, logger), nil
}

func newRedisLog(client *redis.Client, key string, maxEntries int, logger *zap.Logger) *RedisLog {
	return &RedisLog{
		client:     client,
		key:        key,
		maxEntries: int64(maxEntries),
		logger:     logger,
	}
}

func (r *RedisLog) Append(ctx context.Context, entry domain.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode audit entry: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, -r.maxEntries, -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (r *RedisLog) Entries(ctx context.Context) ([]domain.AuditEntry, error) {
	items, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read audit entries: %w", err)
	}

	entries := make([]domain.AuditEntry, 0, len(items))
	for _, item := range items {
		var entry domain.AuditEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			r.logger.Warn("Skip corrupt audit entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *RedisLog) Close() error {
	return r.client.Close()
}
