package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/adapters/persistence/repositories"
	"rema-partners/internal/core/domain"
	"rema-partners/internal/pkg/jwt"
	"rema-partners/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	revokedTokenRepo repositories.RevokedTokenRepository
	subscriptionRepo repositories.SubscriptionRepository
	codec            *jwt.Codec
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	revokedTokenRepo repositories.RevokedTokenRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	codec *jwt.Codec,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		revokedTokenRepo: revokedTokenRepo,
		subscriptionRepo: subscriptionRepo,
		codec:            codec,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"rol"`
}

// LoginInput represents login input
type LoginInput struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	GoogleToken string `json:"googleToken"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Register registers a new user. The role defaults to COMPRADOR; a submitted
// role may only be COMPRADOR or VENDEDOR. Registration mints a token so the
// client is logged in immediately.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Resolve role. Self-registration only hands out the public roles;
	// ADMIN and TRABAJADOR are granted through the admin user management,
	// never from a request body.
	role := models.RoleComprador
	if input.Role != "" {
		role = models.Role(input.Role)
		if role != models.RoleComprador && role != models.RoleVendedor {
			return nil, domain.ErrInvalidRole
		}
	}

	// 2. Check if username already exists
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 3. Check if email already exists
	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 4. Hash password
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Create user
	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 6. Mint token
	token, err := s.codec.Mint(user.Username)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s [%s]", user.Username, user.Role)

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// Login authenticates a user and mints a bearer token.
//
// Credential failures never reveal whether the username or the password was
// wrong. A seller whose subscription has lapsed is demoted to buyer before the
// token is minted, so no downstream authorization decision sees the stale role.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password. This runs before the active check so that an
	// unauthenticated caller can never learn an account's state: without the
	// password, every answer is ErrInvalidCredentials.
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Check if user is active
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// 4. Record the federated-login token for notification routing. This is
	// orthogonal to authentication, so a failure here is logged, not fatal.
	if input.GoogleToken != "" && input.GoogleToken != user.GoogleToken {
		user.GoogleToken = input.GoogleToken
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Printf("⚠️ Failed to store google token for %s: %v", user.Username, err)
		}
	}

	// 5. Re-evaluate the role before minting
	if err := s.reevaluateRole(ctx, user); err != nil {
		return nil, err
	}

	// 6. Mint token
	token, err := s.codec.Mint(user.Username)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s [%s]", user.Username, user.Role)

	return &AuthResponse{
		User:  user.ToResponse(),
		Token: token,
	}, nil
}

// Logout revokes the presented token. The denylist entry makes the token
// unusable on the very next request without rotating the signing key.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	// Only structurally valid tokens carry the claims the record needs.
	claims, err := s.codec.Verify(token)
	if err != nil {
		return domain.ErrTokenInvalid
	}

	if err := s.revokedTokenRepo.Revoke(ctx, token, claims.Username(), claims.ExpiresAt.Time); err != nil {
		// An apparently successful logout that did not persist would be a
		// security lie; surface the failure to the caller.
		return fmt.Errorf("revoke token: %w", err)
	}

	log.Printf("✅ User logged out: %s", claims.Username())
	return nil
}

// RevokeToken denylists a token on behalf of another operation (e.g. forced
// invalidation when an account is renamed or deactivated).
func (s *AuthService) RevokeToken(ctx context.Context, token string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		// Invalid or expired tokens are already unusable.
		return nil
	}
	return s.revokedTokenRepo.Revoke(ctx, token, claims.Username(), claims.ExpiresAt.Time)
}

// reevaluateRole demotes a seller to buyer when the newest subscription is
// missing or lapsed. The update is persisted before any token is minted; if
// persisting fails the login fails, because continuing would authorize
// requests against a role the directory no longer holds.
func (s *AuthService) reevaluateRole(ctx context.Context, user *models.User) error {
	if user.Role != models.RoleVendedor {
		return nil
	}

	sub, err := s.subscriptionRepo.GetLatestByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if sub != nil && !sub.IsLapsed(time.Now()) {
		return nil
	}

	user.Role = models.RoleComprador
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("demote lapsed seller: %w", err)
	}

	log.Printf("ℹ️ Seller %s demoted to %s (no live subscription)", user.Username, user.Role)
	return nil
}
