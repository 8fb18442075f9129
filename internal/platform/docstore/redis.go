package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores each table document under docstore:{scope}:{table}.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func redisKey(table, scope string) string {
	return fmt.Sprintf("docstore:%s:%s", scope, table)
}

// Read returns the stored document or nil when absent.
func (r *Redis) Read(ctx context.Context, table, scope string) ([]byte, error) {
	raw, err := r.client.Get(ctx, redisKey(table, scope)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: redis get %s: %w", table, err)
	}
	return raw, nil
}

// Write overwrites the document. Documents do not expire.
func (r *Redis) Write(ctx context.Context, table string, payload []byte, scope string) error {
	if err := r.client.Set(ctx, redisKey(table, scope), payload, 0).Err(); err != nil {
		return fmt.Errorf("docstore: redis set %s: %w", table, err)
	}
	return nil
}
