package repositories

import (
	"context"
	"time"

	"rema-partners/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RevokedTokenRepository defines the token denylist interface.
//
// IsRevoked must be a plain point read; it runs on every authorized request.
type RevokedTokenRepository interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	Revoke(ctx context.Context, token, username string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.RevokedToken, error)
	DeleteExpired(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// SubscriptionRepository defines seller subscription lookups
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	GetLatestByUserID(ctx context.Context, userID uint) (*models.Subscription, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.Subscription, error)
}

// ProductRepository defines catalog repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	ListPublished(ctx context.Context, offset, limit int) ([]*models.Product, int64, error)
	Count(ctx context.Context) (int64, error)
}
