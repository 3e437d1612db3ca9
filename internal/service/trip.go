// Package service contains the business logic of TripMate.
// TripService is the explicit state container for the one live trip
// document: it applies editor and merge functions, persists every new
// snapshot to the slot store and guards the external plan generator.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/choiyuns329/Japan-trip/internal/budget"
	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/editor"
	"github.com/choiyuns329/Japan-trip/internal/merge"
	"github.com/choiyuns329/Japan-trip/internal/planner"
	"github.com/choiyuns329/Japan-trip/internal/repo"
)

// Storage slot keys. The names match the keys the browser front-end uses in
// local storage, so an exported value can be moved between the two.
const (
	TripKey = "tripMateData"
	UserKey = "tripMateUser"
)

// TripService owns the current trip document.
type TripService struct {
	slots     repo.SlotRepo
	gen       planner.Generator
	log       *slog.Logger
	now       func() time.Time
	mergeOpts []merge.Option
	publicURL string

	mu   sync.Mutex // serializes mutations of trip
	trip domain.Trip

	// generating admits one plan generation at a time.
	generating *semaphore.Weighted
}

// Option customizes a TripService.
type Option func(*TripService)

// WithOmittedLists sets how generated plans treat lists they do not mention.
func WithOmittedLists(p merge.OmittedLists) Option {
	return func(s *TripService) { s.mergeOpts = []merge.Option{merge.WithOmittedLists(p)} }
}

// WithClock overrides time.Now, used for the default trip dates.
func WithClock(now func() time.Time) Option {
	return func(s *TripService) { s.now = now }
}

// WithPublicURL sets the front-end address that share links point at.
func WithPublicURL(u string) Option {
	return func(s *TripService) { s.publicURL = u }
}

// NewTripService constructs a TripService holding the default document.
// Call Load to replace it with the stored one.
func NewTripService(slots repo.SlotRepo, gen planner.Generator, log *slog.Logger, opts ...Option) *TripService {
	s := &TripService{
		slots:      slots,
		gen:        gen,
		log:        log,
		now:        time.Now,
		publicURL:  DefaultPublicURL,
		generating: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.trip = domain.NewTrip(s.now())
	return s
}

// Load reads the stored document. A missing or unreadable value leaves the
// default document in place; only a storage failure is returned.
func (s *TripService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.slots.Get(ctx, TripKey)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.InfoContext(ctx, "no stored trip, starting with defaults")
		s.trip = domain.NewTrip(s.now())
		return nil
	}
	if err != nil {
		return fmt.Errorf("service.TripService.Load: %w", err)
	}

	var t domain.Trip
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		s.log.WarnContext(ctx, "stored trip is malformed, starting with defaults", "error", err)
		s.trip = domain.NewTrip(s.now())
		return nil
	}
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		s.log.WarnContext(ctx, "stored trip is invalid, starting with defaults", "error", err)
		s.trip = domain.NewTrip(s.now())
		return nil
	}
	s.trip = t
	return nil
}

// Trip returns a copy of the current document.
func (s *TripService) Trip() domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trip.Clone()
}

// Add appends a default entity of the given kind.
func (s *TripService) Add(ctx context.Context, kind domain.Kind, opts ...editor.AddOption) (domain.Trip, domain.Entity, error) {
	return s.AddWith(ctx, kind, nil, opts...)
}

// AddWith creates a default entity of kind, passes it through patch and
// validates the result before anything is saved. A failing patch or an
// invalid result leaves the document untouched. A nil patch adds the default.
func (s *TripService) AddWith(ctx context.Context, kind domain.Kind, patch func(domain.Entity) (domain.Entity, error), opts ...editor.AddOption) (domain.Trip, domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, e, err := editor.Add(s.trip, kind, opts...)
	if err != nil {
		return s.trip.Clone(), nil, fmt.Errorf("service.TripService.AddWith: %w", err)
	}
	if patch != nil {
		id := e.EntityID()
		if e, err = patch(e); err != nil {
			return s.trip.Clone(), nil, fmt.Errorf("service.TripService.AddWith: %w", err)
		}
		if e == nil || e.Kind() != kind || e.EntityID() != id {
			return s.trip.Clone(), nil, fmt.Errorf("service.TripService.AddWith: %w: patch changed the %s identity", domain.ErrValidation, kind)
		}
		if err := domain.ValidateEntity(e); err != nil {
			return s.trip.Clone(), nil, fmt.Errorf("service.TripService.AddWith: %w", err)
		}
		next = editor.Update(next, e)
	}
	trip, err := s.commit(ctx, "Add", next)
	return trip, e, err
}

// Update replaces the entity with e's id in e's list. An unknown id leaves
// the document unchanged and is not an error.
func (s *TripService) Update(ctx context.Context, e domain.Entity) (domain.Trip, error) {
	if err := domain.ValidateEntity(e); err != nil {
		return s.Trip(), fmt.Errorf("service.TripService.Update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, "Update", editor.Update(s.trip, e))
}

// Delete removes the entity with the given id. Missing ids are a no-op.
func (s *TripService) Delete(ctx context.Context, kind domain.Kind, id string) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, "Delete", editor.Delete(s.trip, kind, id))
}

// SetInfo changes the scalar trip fields named by p.
func (s *TripService) SetInfo(ctx context.Context, p editor.InfoPatch) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := editor.SetInfo(s.trip, p)
	if err := next.Validate(); err != nil {
		return s.trip.Clone(), fmt.Errorf("service.TripService.SetInfo: %w", err)
	}
	return s.commit(ctx, "SetInfo", next)
}

// Replace swaps in a whole document, for example one decoded from a share link.
func (s *TripService) Replace(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return s.Trip(), fmt.Errorf("service.TripService.Replace: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, "Replace", t)
}

// Reset discards the current document in favour of the defaults.
func (s *TripService) Reset(ctx context.Context) (domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, "Reset", domain.NewTrip(s.now()))
}

// Budget returns the aggregate of the current document.
func (s *TripService) Budget() budget.Summary {
	return budget.Summarize(s.Trip())
}

// Itinerary returns the activities in display order, grouped by day.
func (s *TripService) Itinerary() []budget.DayPlan {
	return budget.Days(s.Trip().Activities)
}

// Generate asks the planner for a plan and merges it into the document as it
// stands when the plan arrives. Only one generation runs at a time; a second
// call while one is pending fails with domain.ErrGenerationInFlight.
// When no plan comes back the document is unchanged and the error wraps
// domain.ErrNoPlan.
func (s *TripService) Generate(ctx context.Context, prompt string) (domain.Trip, error) {
	if strings.TrimSpace(prompt) == "" {
		return s.Trip(), fmt.Errorf("service.TripService.Generate: %w: prompt is empty", domain.ErrValidation)
	}
	if !s.generating.TryAcquire(1) {
		return s.Trip(), fmt.Errorf("service.TripService.Generate: %w", domain.ErrGenerationInFlight)
	}
	defer s.generating.Release(1)

	// The external call runs without holding mu so edits stay possible.
	p, err := s.gen.Generate(ctx, prompt, s.Trip())
	if err != nil {
		if !errors.Is(err, domain.ErrNoPlan) {
			err = fmt.Errorf("%w: %w", domain.ErrNoPlan, err)
		}
		return s.Trip(), fmt.Errorf("service.TripService.Generate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, "Generate", merge.Apply(s.trip, p, s.mergeOpts...))
}

// commit installs next as the current document and persists it. A failed
// write keeps next in memory and reports domain.ErrPersist.
// mu must be held.
func (s *TripService) commit(ctx context.Context, op string, next domain.Trip) (domain.Trip, error) {
	s.trip = next

	raw, err := json.Marshal(next)
	if err == nil {
		err = s.slots.Put(ctx, TripKey, string(raw))
	}
	if err != nil {
		s.log.ErrorContext(ctx, "persist trip failed", "op", op, "error", err)
		return next.Clone(), fmt.Errorf("service.TripService.%s: %w: %w", op, domain.ErrPersist, err)
	}
	return next.Clone(), nil
}
