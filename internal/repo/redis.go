package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// RedisKeyPrefix namespaces every slot key in a shared Redis database.
const RedisKeyPrefix = "tripmate:"

// redisSlotRepo is the Redis implementation of SlotRepo. Values never expire.
type redisSlotRepo struct {
	rdb redis.Cmdable
}

// NewRedisSlotRepo constructs a SlotRepo backed by a Redis client.
func NewRedisSlotRepo(rdb redis.Cmdable) SlotRepo {
	return &redisSlotRepo{rdb: rdb}
}

func (r *redisSlotRepo) Get(ctx context.Context, key string) (string, error) {
	value, err := r.rdb.Get(ctx, RedisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("repo.SlotRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.SlotRepo.Get: %w", err)
	}
	return value, nil
}

func (r *redisSlotRepo) Put(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, RedisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.SlotRepo.Put: %w", err)
	}
	return nil
}

func (r *redisSlotRepo) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, RedisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("repo.SlotRepo.Delete: %w", err)
	}
	return nil
}
