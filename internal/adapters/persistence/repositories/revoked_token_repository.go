package repositories

import (
	"context"
	"errors"
	"time"

	"rema-partners/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// revokedTokenRepository implements RevokedTokenRepository interface
type revokedTokenRepository struct {
	db *gorm.DB
}

// NewRevokedTokenRepository creates a new revoked token repository
func NewRevokedTokenRepository(db *gorm.DB) RevokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

// IsRevoked reports whether the literal token string has been denylisted.
// Tokens never recorded are not revoked.
func (r *revokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	var record models.RevokedToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return !record.IsValid, nil
}

// Revoke upserts a revocation record keyed by the token string. Calling it
// again for the same token rewrites the same row, so the operation is
// idempotent.
func (r *revokedTokenRepository) Revoke(ctx context.Context, token, username string, expiresAt time.Time) error {
	record := models.RevokedToken{
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
		IsValid:   false,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "expires_at", "is_valid"}),
		}).
		Create(&record).Error
}

// GetByToken gets a revocation record by token string
func (r *revokedTokenRepository) GetByToken(ctx context.Context, token string) (*models.RevokedToken, error) {
	var record models.RevokedToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteExpired deletes records whose stored expiry has passed (cleanup job).
// An expired token can no longer be presented as valid-looking, so its
// denylist row carries no information.
func (r *revokedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}

// CountActive counts revocation records that have not yet aged out
func (r *revokedTokenRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("expires_at >= ?", time.Now()).
		Count(&count).Error
	return count, err
}
