package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/service"
	"github.com/noah-isme/flowcoach-api/internal/utils"
)

// AdminHandler exposes the cross-user submission overview.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires admin routes. Callers must guard the router with the admin role.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/submissions", h.recentSubmissions)
}

func (h *AdminHandler) recentSubmissions(c *fiber.Ctx) error {
	result, err := h.service.RecentSubmissions(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load recent submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load submissions")
	}

	meta := fiber.Map{
		"total":        len(result.Submissions),
		"unique_users": result.UniqueUsers,
		"cache_hit":    result.CacheHit,
	}
	return utils.OK(c, result, "recent submissions retrieved", meta)
}
