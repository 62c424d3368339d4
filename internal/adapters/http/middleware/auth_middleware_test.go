package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/adapters/persistence/repositories"
	"rema-partners/internal/pkg/jwt"
	"rema-partners/internal/pkg/response"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type middlewareTestEnv struct {
	app              *fiber.App
	db               *gorm.DB
	codec            *jwt.Codec
	userRepo         repositories.UserRepository
	revokedTokenRepo repositories.RevokedTokenRepository
}

func newMiddlewareTestEnv(t *testing.T) *middlewareTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	codec := jwt.NewCodec(jwt.Config{
		Secret: []byte("test-signing-secret"),
		TTL:    15 * time.Minute,
	})
	userRepo := repositories.NewUserRepository(db)
	revokedTokenRepo := repositories.NewRevokedTokenRepository(db)

	app := fiber.New()
	app.Use(Authenticate(codec, userRepo, revokedTokenRepo))
	app.Get("/whoami", RequireAuth(), func(c *fiber.Ctx) error {
		return response.Success(c, "OK", fiber.Map{
			"username": Username(c),
			"role":     RoleOf(c),
		})
	})
	app.Get("/staff", StaffOnly(), func(c *fiber.Ctx) error {
		return response.Success(c, "OK", nil)
	})

	return &middlewareTestEnv{
		app:              app,
		db:               db,
		codec:            codec,
		userRepo:         userRepo,
		revokedTokenRepo: revokedTokenRepo,
	}
}

func (env *middlewareTestEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant-here",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, env.userRepo.Create(context.Background(), user))
	return user
}

func (env *middlewareTestEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)
	env.createUser(t, "maria", models.RoleTrabajador)

	token, err := env.codec.Mint("maria")
	require.NoError(t, err)

	resp := env.get(t, "/whoami", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticate_AnonymousWithoutToken(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)

	resp := env.get(t, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_ExpiredTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)
	env.createUser(t, "maria", models.RoleTrabajador)

	expiredCodec := jwt.NewCodec(jwt.Config{
		Secret: []byte("test-signing-secret"),
		TTL:    -time.Minute,
	})
	token, err := expiredCodec.Mint("maria")
	require.NoError(t, err)

	resp := env.get(t, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_RevokedTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)
	env.createUser(t, "maria", models.RoleTrabajador)

	token, err := env.codec.Mint("maria")
	require.NoError(t, err)
	require.NoError(t, env.revokedTokenRepo.Revoke(context.Background(), token, "maria", time.Now().Add(15*time.Minute)))

	resp := env.get(t, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_UnknownSubjectIsAnonymous(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)

	// Signed, unexpired, unrevoked, but the subject no longer exists
	token, err := env.codec.Mint("ghost")
	require.NoError(t, err)

	resp := env.get(t, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticate_StoreFailure_FailsClosed(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)
	env.createUser(t, "maria", models.RoleTrabajador)

	token, err := env.codec.Mint("maria")
	require.NoError(t, err)

	// Break the denylist table. The authorizer cannot complete the revocation
	// check, so it must reject rather than let the token through unchecked.
	require.NoError(t, env.db.Migrator().DropTable(&models.RevokedToken{}))

	resp := env.get(t, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoles_InsufficientRole(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)
	env.createUser(t, "maria", models.RoleComprador)

	token, err := env.codec.Mint("maria")
	require.NoError(t, err)

	resp := env.get(t, "/staff", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRoles_AnonymousGets401Not403(t *testing.T) {
	t.Parallel()

	env := newMiddlewareTestEnv(t)

	resp := env.get(t, "/staff", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExtractToken_HeaderPreferredOverCookie(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/echo", func(c *fiber.Ctx) error {
		return c.SendString(ExtractToken(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "header-token", string(buf[:n]))
}
