package handler_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/handler"
)

type stubAdminService struct {
	response dto.AdminSubmissionsResponse
	err      error
}

func (s stubAdminService) RecentSubmissions(context.Context) (dto.AdminSubmissionsResponse, error) {
	return s.response, s.err
}

func newAdminApp(svc stubAdminService) *fiber.App {
	app := fiber.New()
	handler.NewAdminHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/admin"))
	return app
}

func TestAdminHandlerRecentSubmissions(t *testing.T) {
	now := time.Now().UTC()
	svc := stubAdminService{response: dto.AdminSubmissionsResponse{
		Submissions: []dto.AdminSubmissionResponse{{
			SubmissionResponse: dto.SubmissionResponse{ID: "s-1", Kind: dto.SubmissionKindWorkflow},
			UserName:           dto.UnknownUser,
			UserEmail:          dto.UnknownUser,
		}},
		UniqueUsers: 1,
		WindowHours: 10,
		Since:       now.Add(-10 * time.Hour),
		GeneratedAt: now,
		CacheHit:    true,
	}}

	status, envelope := getEnvelope(t, newAdminApp(svc), "/api/admin/submissions")
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, envelope.Success)

	meta := envelope.Meta.(map[string]interface{})
	require.Equal(t, float64(1), meta["total"])
	require.Equal(t, true, meta["cache_hit"])

	data := envelope.Data.(map[string]interface{})
	submission := data["submissions"].([]interface{})[0].(map[string]interface{})
	require.Equal(t, "s-1", submission["id"])
	require.Equal(t, "Unknown", submission["user_name"])
}

func TestAdminHandlerFailure(t *testing.T) {
	status, envelope := getEnvelope(t, newAdminApp(stubAdminService{err: errors.New("timeout")}), "/api/admin/submissions")
	require.Equal(t, fiber.StatusInternalServerError, status)
	require.False(t, envelope.Success)
}
