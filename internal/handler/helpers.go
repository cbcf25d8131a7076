package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/evaluation"
	"github.com/noah-isme/flowcoach-api/internal/middleware"
	"github.com/noah-isme/flowcoach-api/internal/service"
	"github.com/noah-isme/flowcoach-api/pkg/ai"
)

// unsavedWarning accompanies results that were computed but could not be stored.
const unsavedWarning = "Result could not be saved to your history"

func userIDFromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals(middleware.LocalUserID).(string); ok {
		return strings.TrimSpace(id)
	}
	return ""
}

func userRoleFromContext(c *fiber.Ctx) string {
	if role, ok := c.Locals(middleware.LocalUserRole).(string); ok {
		return role
	}
	return ""
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// functionErrorStatus maps a service error to the status and message of a function endpoint.
func functionErrorStatus(err error) (int, string) {
	var (
		inputErr *service.InputError
		genErr   *service.GenerationError
		parseErr *evaluation.ParseError
	)

	switch {
	case errors.As(err, &inputErr):
		return fiber.StatusBadRequest, inputErr.Message
	case errors.Is(err, ai.ErrMissingCredential):
		return fiber.StatusInternalServerError, ai.ErrMissingCredential.Error()
	case errors.As(err, &genErr):
		return fiber.StatusBadGateway, genErr.Message
	case errors.As(err, &parseErr):
		return fiber.StatusBadGateway, "Failed to parse evaluation response"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
