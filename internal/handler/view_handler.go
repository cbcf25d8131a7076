package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/service"
	"github.com/noah-isme/flowcoach-api/internal/utils"
)

// ViewHandler serves the view-model endpoints backing each client screen.
type ViewHandler struct {
	users   service.UserService
	views   service.ViewService
	history service.HistoryService
	logger  zerolog.Logger
}

// NewViewHandler constructs a view handler.
func NewViewHandler(users service.UserService, views service.ViewService, history service.HistoryService, logger zerolog.Logger) *ViewHandler {
	return &ViewHandler{
		users:   users,
		views:   views,
		history: history,
		logger:  logger.With().Str("component", "view_handler").Logger(),
	}
}

// Register wires view routes.
func (h *ViewHandler) Register(router fiber.Router) {
	router.Get("/me", h.me)
	router.Get("/navigation", h.navigation)
	router.Get("/generator", h.generator)
	router.Get("/evaluator", h.evaluator)
	router.Get("/analyzer", h.analyzer)
	router.Get("/history", h.listHistory)
}

func (h *ViewHandler) me(c *fiber.Ctx) error {
	profile, err := h.users.Profile(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err, "failed to load profile")
	}
	return utils.SendSuccess(c, "profile retrieved", profile)
}

func (h *ViewHandler) navigation(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "navigation retrieved", h.users.Navigation(userRoleFromContext(c)))
}

func (h *ViewHandler) generator(c *fiber.Ctx) error {
	view, err := h.views.Generator(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err, "failed to load generator")
	}
	return utils.SendSuccess(c, "generator retrieved", view)
}

func (h *ViewHandler) evaluator(c *fiber.Ctx) error {
	view, err := h.views.Evaluator(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err, "failed to load evaluator")
	}
	return utils.SendSuccess(c, "evaluator retrieved", view)
}

func (h *ViewHandler) analyzer(c *fiber.Ctx) error {
	view, err := h.views.Analyzer(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err, "failed to load analyzer")
	}
	return utils.SendSuccess(c, "analyzer retrieved", view)
}

func (h *ViewHandler) listHistory(c *fiber.Ctx) error {
	history, err := h.history.List(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err, "failed to load history")
	}
	return utils.OK(c, history, "history retrieved", fiber.Map{"total": len(history.Items)})
}

func (h *ViewHandler) handleError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, service.ErrNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "not found")
	}
	requestLogger(h.logger, c).Error().Err(err).Str("user_id", userIDFromContext(c)).Msg(message)
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}
