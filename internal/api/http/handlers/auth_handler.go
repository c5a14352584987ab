package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AuthHandler manages signup, login and the current-session endpoint.
type AuthHandler struct {
	service   *service.AuthService
	responder Responder
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, responder Responder) *AuthHandler {
	return &AuthHandler{service: authService, responder: responder}
}

// Register POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.EmployeeID == "" {
		return apperrors.NewValidationError("name, email, password, employeeID required", nil)
	}

	user, err := h.service.Register(c.UserContext(), service.RegisterInput{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Password:   req.Password,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		Department: req.Department,
		Branch:     req.Branch,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusCreated, dto.AuthResponse{
		Message: "Registration successful. Your account is pending approval.",
		User:    dto.NewUserResponse(user),
	})
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EmployeeID == "" || req.Password == "" {
		return apperrors.NewValidationError("employeeID and password required", nil)
	}

	user, token, expiresAt, err := h.service.Login(c.UserContext(), strings.TrimSpace(req.EmployeeID), req.Password)
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, dto.AuthResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: &expiresAt,
		User:      dto.NewUserResponse(user),
	})
}

// Me GET /api/auth/me. Reloads the account and issues a fresh token so the
// client can extend its session.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, token, expiresAt, err := h.service.CurrentUser(c.UserContext(), principal.EmployeeID)
	if err != nil {
		return err
	}
	return h.responder.Send(c, http.StatusOK, dto.AuthResponse{
		Token:     token,
		ExpiresAt: &expiresAt,
		User:      dto.NewUserResponse(user),
	})
}
