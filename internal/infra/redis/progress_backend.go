package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProgressBackend stores each profile's documents in one Redis hash:
// HSET progress:{profileID} {key} {document}
// A positive ttl expires idle profiles; zero keeps them forever.
type ProgressBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProgressBackend(client *redis.Client, ttl time.Duration) *ProgressBackend {
	return &ProgressBackend{client: client, ttl: ttl}
}

func (b *ProgressBackend) Read(ctx context.Context, profileID, key string) ([]byte, bool, error) {
	raw, err := b.client.HGet(ctx, b.hashKey(profileID), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (b *ProgressBackend) Write(ctx context.Context, profileID, key string, value []byte) error {
	pipe := b.client.TxPipeline()
	pipe.HSet(ctx, b.hashKey(profileID), key, value)
	if b.ttl > 0 {
		pipe.Expire(ctx, b.hashKey(profileID), b.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (b *ProgressBackend) hashKey(profileID string) string {
	return "progress:" + profileID
}
