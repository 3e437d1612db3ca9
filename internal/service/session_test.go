package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choiyuns329/Japan-trip/internal/domain"
	"github.com/choiyuns329/Japan-trip/internal/repo"
	"github.com/choiyuns329/Japan-trip/internal/service"
)

func TestSessionService_LoginCurrentLogout(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSessionService(repo.NewMemorySlotRepo(), discardLogger())

	_, err := svc.Current(ctx)
	require.ErrorIs(t, err, domain.ErrNotFound, "nobody is logged in yet")

	u, err := svc.Login(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultUserName, u.Name)
	assert.Regexp(t, `^user-[0-9a-f]{9}$`, u.ID)

	got, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Logout(ctx), "logging out twice is fine")
	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_MalformedUserIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	slots := repo.NewMemorySlotRepo()
	require.NoError(t, slots.Put(ctx, service.UserKey, `{"name": "no id"}`))

	_, err := service.NewSessionService(slots, discardLogger()).Current(ctx)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionService_LoginPersistFailure(t *testing.T) {
	svc := service.NewSessionService(failingPut(), discardLogger())

	_, err := svc.Login(context.Background(), "Kim", "kim@example.com")

	assert.ErrorIs(t, err, domain.ErrPersist)
}

func TestSessionService_SlotsAreSeparate(t *testing.T) {
	ctx := context.Background()
	slots := &mockSlotRepo{
		put: func(_ context.Context, key, _ string) error {
			if key != service.UserKey {
				return errors.New("wrong slot " + key)
			}
			return nil
		},
	}

	_, err := service.NewSessionService(slots, discardLogger()).Login(ctx, "Kim", "")

	assert.NoError(t, err)
}
