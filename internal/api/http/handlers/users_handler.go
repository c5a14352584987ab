package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UsersHandler manages account administration and profile self-service.
type UsersHandler struct {
	service   *service.UserService
	responder Responder
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, responder Responder) *UsersHandler {
	return &UsersHandler{service: userService, responder: responder}
}

// List GET /api/users/all.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, dto.UserListResponse{
		Users: dto.NewUserResponses(users),
		Total: len(users),
	})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// Update PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.Update(c.UserContext(), principal, id, userUpdateInput(req))
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, fiber.Map{
		"message": "User updated successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := userID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal, id); err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, dto.MessageResponse{Message: "User deleted successfully"})
}

// SetApproval PUT /api/users/:id/approval. Super admin review decision.
func (h *UsersHandler) SetApproval(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req dto.ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.SetApproval(c.UserContext(), id, req.ApprovalStatus)
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, fiber.Map{
		"message": "Approval status updated",
		"user":    dto.NewUserResponse(user),
	})
}

// Profile GET /api/users/profile/me.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return h.responder.Send(c, http.StatusOK, fiber.Map{"user": dto.NewUserResponse(principal)})
}

// UpdateProfile PUT /api/users/profile/me. Role changes are ignored for
// non-admin callers inside the service.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.Update(c.UserContext(), principal, principal.ID, userUpdateInput(req))
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
		"user":    dto.NewUserResponse(user),
	})
}

func userID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user id", nil)
	}
	return id, nil
}

func userUpdateInput(req dto.UpdateUserRequest) service.UserUpdate {
	return service.UserUpdate{
		Name:       req.Name,
		Email:      req.Email,
		EmployeeID: req.EmployeeID,
		Department: req.Department,
		Branch:     req.Branch,
		Role:       req.Role,
		Password:   req.Password,
	}
}
