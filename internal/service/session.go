package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/repo"
)

// SessionService keeps the mock identity in its own slot.
// There are no credentials: Login always succeeds.
type SessionService struct {
	slots repo.SlotRepo
	log   *slog.Logger
}

// NewSessionService constructs a SessionService backed by the provided SlotRepo.
func NewSessionService(slots repo.SlotRepo, log *slog.Logger) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	return &SessionService{slots: slots, log: log}
}

// Login stores a new mock user and returns it.
func (s *SessionService) Login(ctx context.Context, name, email string) (domain.User, error) {
	u := domain.NewUser(name, email)
	raw, err := json.Marshal(u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.SessionService.Login: %w", err)
	}
	if err := s.slots.Put(ctx, UserKey, string(raw)); err != nil {
		return u, fmt.Errorf("service.SessionService.Login: %w: %w", domain.ErrPersist, err)
	}
	s.log.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return u, nil
}

// Logout forgets the stored user. Logging out twice is not an error.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.slots.Delete(ctx, UserKey); err != nil {
		return fmt.Errorf("service.SessionService.Logout: %w: %w", domain.ErrPersist, err)
	}
	return nil
}

// Current returns the logged-in user, or domain.ErrNotFound when nobody is.
// A malformed stored value counts as logged out.
func (s *SessionService) Current(ctx context.Context) (domain.User, error) {
	raw, err := s.slots.Get(ctx, UserKey)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.SessionService.Current: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		if err == nil {
			err = errors.New("missing id")
		}
		s.log.WarnContext(ctx, "stored user is malformed, treating as logged out", "error", err)
		return domain.User{}, fmt.Errorf("service.SessionService.Current: %w", domain.ErrNotFound)
	}
	return u, nil
}
