package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoWebAPP/GoWebAPP/internal/web/response"
)

func deny(c *fiber.Ctx, status int, message string) error {
	if response.WantsJSON(c) {
		return response.Fail(c, status, message)
	}

	return c.Status(status).SendString(message)
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return RequireAnyPermission(authService, permission)
}

// RequireAnyPermission creates Fiber middleware that requires at least one
// of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFromCtx(c)
		if p.User == nil {
			return deny(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		hasPermission, err := authService.HasAnyPermission(p.User.ID, permissions)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", p.User.ID).Strs("permissions", permissions).
				Msg("Failed to check permission")

			return deny(c, fiber.StatusInternalServerError, "Internal Server Error")
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", p.User.ID).Strs("permissions", permissions).
				Msg("User lacks required permission")

			return deny(c, fiber.StatusForbidden, "Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// AddPermissionsToLocals is a Fiber middleware that adds user permissions to fiber.Locals.
// This allows templates to access permissions for conditional rendering.
func AddPermissionsToLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := PrincipalFromCtx(c)

		c.Locals("permissions", PermissionsOf(p.User))
		c.Locals("hasPermission", p.Can)

		return c.Next()
	}
}

// MarkTokenVerified records that the request passed the anti-forgery check.
// It must run after the CSRF middleware, which rejects unsafe requests
// without a valid token before they get here.
func MarkTokenVerified() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions, fiber.MethodTrace:
		default:
			c.Locals(LocalsTokenVerified, true)
		}

		return c.Next()
	}
}
