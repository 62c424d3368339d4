package middleware

import (
	"errors"
	"strings"

	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/adapters/persistence/repositories"
	"rema-partners/internal/pkg/jwt"
	"rema-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Context local keys set by Authenticate
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
	LocalRole     = "role"
	LocalToken    = "token"
)

// TokenCookieName is the fallback cookie transport for the bearer token
const TokenCookieName = "token"

// Authenticate builds the request authorizer. It runs on every request behind
// it and populates the security context when, and only when, the presented
// token is currently usable: signature valid, not expired, not revoked, and
// resolving to an active principal.
//
// A missing or unusable token leaves the request anonymous; the role gates
// downstream reject what requires authentication. Only a failing revocation
// or principal lookup rejects outright, because granting access without
// completing those checks would fail open.
func Authenticate(
	codec *jwt.Codec,
	userRepo repositories.UserRepository,
	revokedTokenRepo repositories.RevokedTokenRepository,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractToken(c)
		if token == "" {
			return c.Next()
		}

		// An invalid token is equivalent to no token, never a server error.
		claims, err := codec.Verify(token)
		if err != nil {
			return c.Next()
		}

		revoked, err := revokedTokenRepo.IsRevoked(c.Context(), token)
		if err != nil {
			return response.Unauthorized(c, "Could not verify session")
		}
		if revoked {
			return c.Next()
		}

		user, err := userRepo.GetByUsername(c.Context(), claims.Username())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Next()
			}
			return response.Unauthorized(c, "Could not verify session")
		}
		if !user.IsActive {
			return c.Next()
		}

		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUsername, user.Username)
		c.Locals(LocalRole, user.Role)
		c.Locals(LocalToken, token)

		return c.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(LocalUsername).(string); !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		return c.Next()
	}
}

// RequireRoles creates role-based authorization middleware. It distinguishes
// a missing principal (401) from an insufficient role (403).
func RequireRoles(allowedRoles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(models.Role)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RequireRoles(models.RoleAdmin)
}

// StaffOnly middleware allows the roles that may see dashboards
func StaffOnly() fiber.Handler {
	return RequireRoles(models.RoleAdmin, models.RoleVendedor, models.RoleTrabajador)
}

// ExtractToken pulls the bearer token from the Authorization header,
// falling back to the token cookie.
func ExtractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.Cookies(TokenCookieName)
}

// Username returns the authenticated username, or "" for anonymous requests
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(LocalUsername).(string)
	return username
}

// UserID returns the authenticated user id, or 0 for anonymous requests
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// RoleOf returns the authenticated role, or "" for anonymous requests
func RoleOf(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(LocalRole).(models.Role)
	return role
}
