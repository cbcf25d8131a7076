package handler_test

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/noah-isme/flowcoach-api/internal/database"
	"github.com/noah-isme/flowcoach-api/internal/handler"
	"github.com/noah-isme/flowcoach-api/internal/models"
	"github.com/noah-isme/flowcoach-api/internal/repository"
	"github.com/noah-isme/flowcoach-api/internal/service"
)

func setupAdminPerformanceApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.Connect(fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	now := time.Now().UTC()
	scored := datatypes.JSON(`{"scores":{"nodeSelection":8,"nodeConnectivity":7},"totalScore":15,"verdict":"Fair"}`)
	legacy := datatypes.JSON(`{"correct":"ok","lacking":"tests","suggestions":"add tests","score":70}`)

	for u := 0; u < 5; u++ {
		user := models.User{Email: fmt.Sprintf("user%d@example.com", u), Name: fmt.Sprintf("User %d", u)}
		require.NoError(t, db.Create(&user).Error)

		for i := 0; i < 12; i++ {
			score := float64(10 + i)
			createdAt := now.Add(-time.Duration(i*20) * time.Minute)
			require.NoError(t, db.Create(&models.WorkflowSubmission{
				UserID:       user.ID,
				UseCase:      "Route inbound leads to sales",
				WorkflowText: "Webhook -> IF -> Slack",
				Evaluation:   scored,
				Score:        &score,
				CreatedAt:    createdAt,
			}).Error)
			require.NoError(t, db.Create(&models.JSONSubmission{
				UserID:       user.ID,
				UseCase:      "Sync CRM contacts nightly",
				WorkflowJSON: datatypes.JSON(`{"nodes":[{"type":"cron"},{"type":"http"}]}`),
				Evaluation:   legacy,
				Score:        &score,
				CreatedAt:    createdAt,
			}).Error)
		}
	}

	adminService := service.NewAdminService(
		repository.NewWorkflowSubmissionRepository(db),
		repository.NewJSONSubmissionRepository(db),
		nil, 0, 10*time.Hour, zerolog.Nop(),
	)

	app := fiber.New()
	handler.NewAdminHandler(adminService, zerolog.Nop()).Register(app.Group("/api/admin"))
	return app
}

func TestAdminSubmissionsP95LatencyBelow250ms(t *testing.T) {
	if testing.Short() {
		t.Skip("latency check skipped in short mode")
	}
	app := setupAdminPerformanceApp(t)

	runs := 40
	durations := make([]time.Duration, 0, runs)

	for i := 0; i < runs; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/submissions", nil)
		start := time.Now()
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	index := int(math.Ceil(0.95*float64(len(durations)))) - 1
	if index < 0 {
		index = 0
	}

	require.LessOrEqual(t, durations[index], 250*time.Millisecond)
}
