package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// AdminRoles may manage users and queues.
var AdminRoles = []domain.UserRole{domain.UserRoleAdmin, domain.UserRoleDeveloper}

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	allowedSet := make(map[domain.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is present.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
