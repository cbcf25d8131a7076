package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/service"
	"github.com/noah-isme/flowcoach-api/internal/utils"
)

// UserSyncer records the authenticated account and returns its stored profile.
type UserSyncer interface {
	Sync(ctx context.Context, identity service.Identity) (dto.UserProfileResponse, error)
}

// SyncUser ensures the token's account exists and stores its role in Locals. Roles come
// from the users table, never from the token. Must run after JWTProtected.
func SyncUser(users UserSyncer, logger zerolog.Logger, writeError ErrorWriter) fiber.Handler {
	if writeError == nil {
		writeError = utils.SendError
	}
	logger = logger.With().Str("component", "user_sync").Logger()

	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(LocalUserID).(string)
		if userID == "" {
			return writeError(c, fiber.StatusUnauthorized, "authentication required")
		}

		email, _ := c.Locals(LocalUserEmail).(string)
		name, _ := c.Locals(LocalUserName).(string)

		profile, err := users.Sync(c.UserContext(), service.Identity{ID: userID, Email: email, Name: name})
		if err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				return writeError(c, fiber.StatusUnauthorized, "invalid token claims")
			}
			logger.Error().Err(err).Str("user_id", userID).Str("correlation_id", GetCorrelationID(c)).Msg("failed to sync user")
			return writeError(c, fiber.StatusInternalServerError, "failed to load user")
		}

		c.Locals(LocalUserRole, profile.Role)
		return c.Next()
	}
}
