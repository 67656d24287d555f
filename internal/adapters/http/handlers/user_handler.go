package handlers

import (
	"errors"

	"tefa-hub/internal/core/domain"
	"tefa-hub/internal/core/services"
	"tefa-hub/internal/pkg/pagination"
	"tefa-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
	watch       *services.WatchService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, watch *services.WatchService) *UserHandler {
	return &UserHandler{
		userService: userService,
		watch:       watch,
	}
}

// CreateUser creates a user with any role (admin only)
// @Summary Create user
// @Description Create a new user account with a given role (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "User data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.CreateUser(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid user data")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	h.watch.PublishUsers(c.Context())

	return response.Created(c, "User created successfully", user.ToResponse())
}

// ListUsers lists users with pagination and optional role filter (admin only)
// @Summary List users
// @Description List users with pagination; filter by role via ?role=
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role (admin, client, teacher, student)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	role := c.Query("role")

	users, total, err := h.userService.ListUsers(c.Context(), role, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	items := make([]interface{}, 0, len(users))
	for _, u := range users {
		items = append(items, u.ToResponse())
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(items, params, total))
}

// GetUser gets a single user by ID (admin only)
// @Summary Get user
// @Description Get a user by ID
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user.ToResponse())
}

// UpdateUser updates a user's account fields (admin only)
// @Summary Update user
// @Description Update name, username, password or class of a user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Context(), c.Params("id"), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.Conflict(c, "Username already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid user data")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	h.watch.PublishUsers(c.Context())

	return response.Success(c, "User updated successfully", user.ToResponse())
}

// DeleteUser permanently deletes a user (admin only)
// @Summary Delete user
// @Description Permanently delete a user account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	// An admin cannot delete their own account
	if userID, _ := c.Locals("userID").(string); userID == c.Params("id") {
		return response.BadRequest(c, "You cannot delete your own account")
	}

	if err := h.userService.DeleteUser(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	h.watch.PublishUsers(c.Context())

	return response.Success(c, "User deleted successfully", nil)
}

// ListStudents lists student accounts, optionally filtered by class
// @Summary List students
// @Description List student accounts; filter by class via ?class=
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param class query string false "Filter by class name"
// @Success 200 {object} response.Response
// @Router /students [get]
func (h *UserHandler) ListStudents(c *fiber.Ctx) error {
	students, err := h.userService.ListStudents(c.Context(), c.Query("class"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list students")
	}

	items := make([]interface{}, 0, len(students))
	for _, s := range students {
		items = append(items, s.ToResponse())
	}

	return response.Success(c, "Students retrieved successfully", items)
}

// UpdateProfile updates the authenticated client's contact profile
// @Summary Update my profile
// @Description Update the authenticated client's address, phone and email
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), actor.ID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Only clients have a contact profile")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Address and phone are required")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	h.watch.PublishUsers(c.Context())

	return response.Success(c, "Profile updated successfully", user.ToResponse())
}

// ChangePassword changes the authenticated user's password
// @Summary Change my password
// @Description Change the authenticated user's password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Password data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.userService.ChangePassword(c.Context(), actor.ID, &input); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPassword):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "New password must be at least 6 characters")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}
