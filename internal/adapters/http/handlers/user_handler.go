package handlers

import (
	"errors"
	"log"
	"strconv"

	"rema-partners/internal/adapters/http/middleware"
	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/core/domain"
	"rema-partners/internal/core/services"
	"rema-partners/internal/pkg/pagination"
	"rema-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles admin user management endpoints
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// List lists users
// @Summary List users
// @Description List all users with pagination
// @Tags Users
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} pagination.Response
// @Security BearerAuth
// @Router /admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	return c.JSON(pagination.NewResponse(items, params, total))
}

// Get gets a user by id
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	user, err := h.userService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "", user.ToResponse())
}

// SetActiveRequest represents activation request body
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// SetActive activates or deactivates a user
// @Summary Activate/deactivate user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body SetActiveRequest true "Activation flag"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/users/{id}/active [put]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.SetActive(c.Context(), uint(id), req.Active)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update user")
	}

	return response.Success(c, "User updated", user.ToResponse())
}

// ChangeRoleRequest represents role change request body
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole changes a user's role
// @Summary Change user role
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body ChangeRoleRequest true "New role"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.ChangeRole(c.Context(), uint(id), models.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Unknown role")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "Role updated", user.ToResponse())
}

// RenameRequest represents rename request body
type RenameRequest struct {
	Username string `json:"username"`
}

// Rename changes a username and force-invalidates the requesting token, so
// no session minted for the old name keeps working.
// @Summary Rename user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body RenameRequest true "New username"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/users/{id}/username [put]
func (h *UserHandler) Rename(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	var req RenameRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Rename(c.Context(), uint(id), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Username already taken")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to rename user")
		}
	}

	// Renaming yourself invalidates the session that asked for it.
	if middleware.UserID(c) == uint(id) {
		if token := middleware.ExtractToken(c); token != "" {
			if err := h.authService.RevokeToken(c.Context(), token); err != nil {
				log.Printf("⚠️ Failed to revoke token after rename: %v", err)
			}
		}
	}

	return response.Success(c, "Username updated", user.ToResponse())
}

// Delete deletes a user account
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	if err := h.userService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.Success(c, "User deleted", nil)
}
