package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tmnegociosdigitais/crmdesk/internal/api/dto"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
)

// UsersHandler exposes login and the admin agent directory.
type UsersHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService}
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt, User: userResponse(user)})
}

// Me handles GET /auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), actor, actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// ChangePassword handles POST /auth/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListUsers handles GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	users, err := h.users.ListUsers(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(items)
}

// CreateUser handles POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.UserContext(), actor, service.UserCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(userResponse(user))
}

// UpdateUser handles PUT /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateUser(c.UserContext(), actor, c.Params("id"), service.UserUpdateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		IsActive:   req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// DeleteUser handles DELETE /users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
