package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/service"
	"github.com/noah-isme/flowcoach-api/internal/utils"
)

// FunctionHandler serves the generation and evaluation endpoints called by the web client.
// Responses are bare JSON objects, not the API envelope.
type FunctionHandler struct {
	useCases  service.UseCaseService
	workflows service.WorkflowEvaluationService
	documents service.JSONEvaluationService
	logger    zerolog.Logger
}

// NewFunctionHandler constructs the function handler.
func NewFunctionHandler(useCases service.UseCaseService, workflows service.WorkflowEvaluationService, documents service.JSONEvaluationService, logger zerolog.Logger) *FunctionHandler {
	return &FunctionHandler{
		useCases:  useCases,
		workflows: workflows,
		documents: documents,
		logger:    logger.With().Str("component", "function_handler").Logger(),
	}
}

// Register wires function routes.
func (h *FunctionHandler) Register(router fiber.Router) {
	router.Post("/generate-usecases", h.generateUseCases)
	router.Post("/evaluate-workflow", h.evaluateWorkflow)
	router.Post("/evaluate-json", h.evaluateJSON)
	router.Post("/evaluate-json/upload", h.evaluateJSONUpload)
}

func (h *FunctionHandler) generateUseCases(c *fiber.Ctx) error {
	var payload dto.GenerateUseCasesRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendFunctionError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.useCases.Generate(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		if service.IsPersistenceError(err) {
			result.Warning = unsavedWarning
			return c.Status(fiber.StatusOK).JSON(result)
		}
		return h.handleError(c, err, "generate use cases")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *FunctionHandler) evaluateWorkflow(c *fiber.Ctx) error {
	var payload dto.EvaluateWorkflowRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendFunctionError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.workflows.Evaluate(c.UserContext(), userIDFromContext(c), payload)
	return h.sendEvaluation(c, result, err, "evaluate workflow")
}

func (h *FunctionHandler) evaluateJSON(c *fiber.Ctx) error {
	var payload dto.EvaluateJSONRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendFunctionError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.documents.Evaluate(c.UserContext(), userIDFromContext(c), payload)
	return h.sendEvaluation(c, result, err, "evaluate json workflow")
}

func (h *FunctionHandler) evaluateJSONUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendFunctionError(c, fiber.StatusBadRequest, "A workflow JSON file is required")
	}

	result, err := h.documents.EvaluateUpload(c.UserContext(), userIDFromContext(c), c.FormValue("useCase"), file)
	return h.sendEvaluation(c, result, err, "evaluate uploaded workflow")
}

func (h *FunctionHandler) sendEvaluation(c *fiber.Ctx, result dto.EvaluationResponse, err error, action string) error {
	if err != nil {
		if !service.IsPersistenceError(err) {
			return h.handleError(c, err, action)
		}
		result.Warning = unsavedWarning
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *FunctionHandler) handleError(c *fiber.Ctx, err error, action string) error {
	status, message := functionErrorStatus(err)
	logger := requestLogger(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		logger.Error().Err(err).Str("user_id", userIDFromContext(c)).Int("status", status).Msgf("failed to %s", action)
	} else {
		logger.Warn().Err(err).Str("user_id", userIDFromContext(c)).Msgf("rejected %s request", action)
	}
	return utils.SendFunctionError(c, status, message)
}
