package handlers

import (
	"errors"
	"strings"
	"time"

	"rema-partners/internal/adapters/http/middleware"
	"rema-partners/internal/config"
	"rema-partners/internal/core/domain"
	"rema-partners/internal/core/services"
	"rema-partners/internal/pkg/password"
	"rema-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body. It is deliberately a narrow
// value type decoded independently of the persisted user shape, so
// client-supplied fields like a role or id are never trusted.
type LoginRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	GoogleToken string `json:"googleToken"`
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Username:    strings.TrimSpace(req.Username),
		Password:    req.Password,
		GoogleToken: req.GoogleToken,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid username or password")
		case errors.Is(err, domain.ErrUserInactive):
			return response.Forbidden(c, "User account is inactive")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setTokenCookie(c, result.Token)

	return response.Success(c, "Login successful", fiber.Map{
		"token":    result.Token,
		"username": result.User.Username,
		"idUser":   result.User.ID,
	})
}

// Register handles user registration
// @Summary Register new user
// @Description Create a user and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /createUser [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}
	if !password.ValidatePassword(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	input := &services.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     strings.TrimSpace(req.Rol),
	}

	result, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Role must be COMPRADOR or VENDEDOR")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Username or email already exists")
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	h.setTokenCookie(c, result.Token)

	return response.Created(c, "User registered successfully", fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// Logout handles logout
// @Summary Logout
// @Description Revoke the presented bearer token
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /log_out [get]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		return response.BadRequest(c, "No token presented")
	}

	if err := h.authService.Logout(c.Context(), token); err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return response.Unauthorized(c, "Invalid token")
		}
		// A logout that did not persist must not look successful.
		return response.InternalServerError(c, "Failed to logout")
	}

	h.clearTokenCookie(c)

	return response.Success(c, "Logout successful", nil)
}

// IsLoggedIn reports whether the presented token is currently usable
// @Summary Check login status
// @Description Return the authenticated principal
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /isLoggedIn [get]
func (h *AuthHandler) IsLoggedIn(c *fiber.Ctx) error {
	username := middleware.Username(c)
	if username == "" {
		return response.Unauthorized(c, "User is not logged in")
	}

	user, err := h.userService.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.Unauthorized(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to check authentication status")
	}

	return response.Success(c, "Logged in", user.ToResponse())
}

// setTokenCookie sets the token cookie
func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.JWT.TokenTTL()),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
	})
}

// clearTokenCookie expires the token cookie
func (h *AuthHandler) clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: h.cfg.Cookie.SameSite,
	})
}
