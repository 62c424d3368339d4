package repositories

import (
	"context"
	"testing"
	"time"

	"rema-partners/internal/adapters/persistence/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestRevokedTokenRepository_IsRevoked_UnknownToken(t *testing.T) {
	t.Parallel()

	repo := NewRevokedTokenRepository(newTestDB(t))
	ctx := context.Background()

	// A token the store has never seen is not revoked; absence is a clean
	// answer, not an error.
	revoked, err := repo.IsRevoked(ctx, "never-seen-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokedTokenRepository_RevokeThenCheck(t *testing.T) {
	t.Parallel()

	repo := NewRevokedTokenRepository(newTestDB(t))
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, repo.Revoke(ctx, "some-token", "maria", expiresAt))

	revoked, err := repo.IsRevoked(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	record, err := repo.GetByToken(ctx, "some-token")
	require.NoError(t, err)
	assert.Equal(t, "maria", record.Username)
	assert.False(t, record.IsValid)
}

func TestRevokedTokenRepository_Revoke_Idempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRevokedTokenRepository(db)
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, repo.Revoke(ctx, "some-token", "maria", expiresAt))
	require.NoError(t, repo.Revoke(ctx, "some-token", "maria", expiresAt))

	var count int64
	require.NoError(t, db.Model(&models.RevokedToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	revoked, err := repo.IsRevoked(ctx, "some-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokedTokenRepository_DeleteExpired(t *testing.T) {
	t.Parallel()

	repo := NewRevokedTokenRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "stale-token", "maria", time.Now().Add(-time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "live-token", "maria", time.Now().Add(time.Hour)))

	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// The stale record is gone; its token would only be accepted again if the
	// signature were still valid, and by now it cannot be.
	revoked, err := repo.IsRevoked(ctx, "stale-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "live-token")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokedTokenRepository_CountActive(t *testing.T) {
	t.Parallel()

	repo := NewRevokedTokenRepository(newTestDB(t))
	ctx := context.Background()

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Revoke(ctx, "token-1", "maria", time.Now().Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "token-2", "pedro", time.Now().Add(time.Hour)))

	count, err = repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
