package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/flowcoach-api/internal/utils"
)

// RequireRole admits requests whose synced account role is one of roles. It must run after
// SyncUser, which stores the role held in the users table.
func RequireRole(roles ...string) fiber.Handler {
	allowed := roleSet(roles)

	return func(c *fiber.Ctx) error {
		if !allowed[currentRole(c)] {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func roleSet(roles []string) map[string]bool {
	set := make(map[string]bool, len(roles))
	for _, role := range roles {
		if role = canonicalRole(role); role != "" {
			set[role] = true
		}
	}
	return set
}

func currentRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalUserRole).(string)
	return canonicalRole(role)
}

func canonicalRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
