package utils_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flowcoach-api/internal/utils"
)

func TestResponseWriters(t *testing.T) {
	cases := []struct {
		name   string
		write  fiber.Handler
		status int
		body   string
	}{
		{
			name: "success with data",
			write: func(c *fiber.Ctx) error {
				return utils.SendSuccess(c, "profile retrieved", map[string]string{"role": "user"})
			},
			status: fiber.StatusOK,
			body:   `{"success":true,"data":{"role":"user"},"message":"profile retrieved"}`,
		},
		{
			name: "list with meta and default message",
			write: func(c *fiber.Ctx) error {
				return utils.OK(c, []int{1, 2}, "", fiber.Map{"total": 2})
			},
			status: fiber.StatusOK,
			body:   `{"success":true,"data":[1,2],"message":"success","meta":{"total":2}}`,
		},
		{
			name: "failure with details",
			write: func(c *fiber.Ctx) error {
				return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", fiber.Map{"field": "department"})
			},
			status: fiber.StatusBadRequest,
			body:   `{"success":false,"message":"invalid payload","details":{"field":"department"}}`,
		},
		{
			name: "failure default message",
			write: func(c *fiber.Ctx) error {
				return utils.SendError(c, fiber.StatusUnauthorized, "")
			},
			status: fiber.StatusUnauthorized,
			body:   `{"success":false,"message":"error"}`,
		},
		{
			name: "function error",
			write: func(c *fiber.Ctx) error {
				return utils.SendFunctionError(c, fiber.StatusBadGateway, "Rate limit reached")
			},
			status: fiber.StatusBadGateway,
			body:   `{"error":"Rate limit reached"}`,
		},
		{
			name: "function error default",
			write: func(c *fiber.Ctx) error {
				return utils.SendFunctionError(c, fiber.StatusInternalServerError, "")
			},
			status: fiber.StatusInternalServerError,
			body:   `{"error":"internal error"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/", tc.write)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tc.status, resp.StatusCode)
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.JSONEq(t, tc.body, string(raw))
		})
	}
}
