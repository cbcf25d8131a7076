package utils

import "github.com/gofiber/fiber/v2"

const (
	defaultSuccessMessage = "success"
	defaultErrorMessage   = "error"
)

// APIResponse is the envelope used by the view, admin and health endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Meta    interface{} `json:"meta,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// FunctionError is the body the function endpoints return on failure.
type FunctionError struct {
	Error string `json:"error"`
}

// SendSuccess writes a 200 envelope carrying data.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return OK(c, data, message, nil)
}

// OK writes a 200 envelope with optional list metadata.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	return writeEnvelope(c, fiber.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Message: orDefault(message, defaultSuccessMessage),
		Meta:    meta,
	})
}

// SendError writes a failure envelope without details.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

// Fail writes a failure envelope with optional details.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	return writeEnvelope(c, status, APIResponse{
		Message: orDefault(message, defaultErrorMessage),
		Details: details,
	})
}

// SendFunctionError writes {"error": message}.
func SendFunctionError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(FunctionError{Error: orDefault(message, "internal error")})
}

func writeEnvelope(c *fiber.Ctx, status int, body APIResponse) error {
	return c.Status(status).JSON(body)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
