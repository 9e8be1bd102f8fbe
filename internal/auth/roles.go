package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Juliussaint/gmianugerah/internal/domain"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// RequireOperator ensures the caller is an authenticated operator.
func RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return util.NewUnauthorized("operator required")
		}
		return c.Next()
	}
}

// RequireRole ensures the operator holds one of the allowed roles.
func RequireRole(allowed ...domain.OperatorRole) fiber.Handler {
	allowedSet := make(map[domain.OperatorRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Operator == nil {
			return util.NewForbidden("operator required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Operator.Role]; !exists {
			return util.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
