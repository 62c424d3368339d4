package services

import (
	"context"
	"testing"

	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetByID_NotFound(t *testing.T) {
	t.Parallel()

	env := newAuthTestEnv(t)
	svc := NewUserService(env.userRepo)

	user, err := svc.GetByID(context.Background(), 9999)
	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_ChangeRole(t *testing.T) {
	t.Parallel()

	env := newAuthTestEnv(t)
	svc := NewUserService(env.userRepo)
	ctx := context.Background()
	user := env.createUser(t, "maria", models.RoleComprador)

	updated, err := svc.ChangeRole(ctx, user.ID, models.RoleVendedor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendedor, updated.Role)

	stored, err := env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendedor, stored.Role)
}

func TestUserService_ChangeRole_Unknown(t *testing.T) {
	t.Parallel()

	env := newAuthTestEnv(t)
	svc := NewUserService(env.userRepo)
	user := env.createUser(t, "maria", models.RoleComprador)

	updated, err := svc.ChangeRole(context.Background(), user.ID, models.Role("SUPERUSER"))
	require.Error(t, err)
	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserService_Rename_Conflict(t *testing.T) {
	t.Parallel()

	env := newAuthTestEnv(t)
	svc := NewUserService(env.userRepo)
	env.createUser(t, "maria", models.RoleComprador)
	other := env.createUser(t, "pedro", models.RoleComprador)

	renamed, err := svc.Rename(context.Background(), other.ID, "maria")
	require.Error(t, err)
	assert.Nil(t, renamed)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserService_Rename_OldSubjectStopsResolving(t *testing.T) {
	t.Parallel()

	env := newAuthTestEnv(t)
	svc := NewUserService(env.userRepo)
	ctx := context.Background()
	user := env.createUser(t, "maria", models.RoleComprador)

	_, err := svc.Rename(ctx, user.ID, "maria_nueva")
	require.NoError(t, err)

	// Tokens minted before the rename carry the old subject and now resolve
	// to nothing.
	_, err = svc.GetByUsername(ctx, "maria")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	renamed, err := svc.GetByUsername(ctx, "maria_nueva")
	require.NoError(t, err)
	assert.Equal(t, user.ID, renamed.ID)
}

func TestUserService_SetActive(t *testing.T) {
	t.Parallel()

	env := newAuthTestEnv(t)
	svc := NewUserService(env.userRepo)
	ctx := context.Background()
	user := env.createUser(t, "maria", models.RoleComprador)

	updated, err := svc.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	stored, err := env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
