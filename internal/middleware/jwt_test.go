package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flowcoach-api/internal/middleware"
	"github.com/noah-isme/flowcoach-api/internal/utils"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func identityApp(writeError middleware.ErrorWriter) *fiber.App {
	app := fiber.New()
	app.Get("/", middleware.JWTProtected(testSecret, writeError), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"id":    c.Locals(middleware.LocalUserID),
			"email": c.Locals(middleware.LocalUserEmail),
			"name":  c.Locals(middleware.LocalUserName),
		})
	})
	return app
}

func TestJWTProtectedStoresIdentity(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":           "0b7c6c1e-3f3a-4a55-9d0b-2f1d2c7e8a90",
		"email":         "Ana@Example.com",
		"user_metadata": map[string]interface{}{"full_name": "Ana Putri"},
		"exp":           time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	resp, err := identityApp(nil).Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "0b7c6c1e-3f3a-4a55-9d0b-2f1d2c7e8a90", body["id"])
	require.Equal(t, "Ana@Example.com", body["email"])
	require.Equal(t, "Ana Putri", body["name"])
}

func TestJWTProtectedRejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"empty token":    "Bearer   ",
		"wrong secret":   "Bearer " + signToken(t, "other", jwt.MapClaims{"sub": "u-1"}),
		"expired":        "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no subject":     "Bearer " + signToken(t, testSecret, jwt.MapClaims{"email": "a@b.co"}),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := identityApp(nil).Test(req)
			require.NoError(t, err)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

			var body utils.APIResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.False(t, body.Success)
		})
	}
}

func TestJWTProtectedUsesCustomErrorWriter(t *testing.T) {
	resp, err := identityApp(utils.SendFunctionError).Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"error":"authorization header missing"}`, string(raw))
}
