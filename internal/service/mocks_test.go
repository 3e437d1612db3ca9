package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/planner"
	"github.com/choiyuns329/Japan-trip/internal/repo"
)

// mockSlotRepo is a hand-written test double for repo.SlotRepo.
// Each method is a function field; set only the ones your test needs.
type mockSlotRepo struct {
	get func(ctx context.Context, key string) (string, error)
	put func(ctx context.Context, key, value string) error
	del func(ctx context.Context, key string) error
}

func (m *mockSlotRepo) Get(ctx context.Context, key string) (string, error) {
	return m.get(ctx, key)
}
func (m *mockSlotRepo) Put(ctx context.Context, key, value string) error {
	return m.put(ctx, key, value)
}
func (m *mockSlotRepo) Delete(ctx context.Context, key string) error {
	return m.del(ctx, key)
}

// compile-time check: mockSlotRepo must satisfy repo.SlotRepo.
var _ repo.SlotRepo = (*mockSlotRepo)(nil)

// mockGenerator is a hand-written test double for planner.Generator.
type mockGenerator struct {
	generate func(ctx context.Context, prompt string, current domain.Trip) (domain.Partial, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, current domain.Trip) (domain.Partial, error) {
	return m.generate(ctx, prompt, current)
}

// compile-time check: mockGenerator must satisfy planner.Generator.
var _ planner.Generator = (*mockGenerator)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
