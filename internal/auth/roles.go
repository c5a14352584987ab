package auth

import (
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin ensures the caller has the admin role.
func RequireAdmin() fiber.Handler {
	return requireRole(func(r domain.Role) bool { return r == domain.RoleAdmin },
		"admin privileges required")
}

// RequireSuperAdmin ensures the caller has the super admin role.
func RequireSuperAdmin() fiber.Handler {
	return requireRole(func(r domain.Role) bool { return r == domain.RoleSuperAdmin },
		"super admin privileges required")
}

// RequireAdminOrSuperAdmin allows either admin-equivalent role.
func RequireAdminOrSuperAdmin() fiber.Handler {
	return requireRole(domain.Role.AdminEquivalent,
		"admin or super admin privileges required")
}

func requireRole(allowed func(domain.Role) bool, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !allowed(user.Role) {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}
