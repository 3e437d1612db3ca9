package repo

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"github.com/choiyuns329/Japan-trip/internal/domain"
)

// memorySlotRepo keeps slots in process memory. Nothing survives a restart.
type memorySlotRepo struct {
	c *cache.Cache
}

// NewMemorySlotRepo constructs an empty in-memory SlotRepo.
func NewMemorySlotRepo() SlotRepo {
	return &memorySlotRepo{c: cache.New(cache.NoExpiration, 0)}
}

func (r *memorySlotRepo) Get(_ context.Context, key string) (string, error) {
	v, ok := r.c.Get(key)
	if !ok {
		return "", fmt.Errorf("repo.SlotRepo.Get: %w", domain.ErrNotFound)
	}
	return v.(string), nil
}

func (r *memorySlotRepo) Put(_ context.Context, key, value string) error {
	r.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (r *memorySlotRepo) Delete(_ context.Context, key string) error {
	r.c.Delete(key)
	return nil
}
