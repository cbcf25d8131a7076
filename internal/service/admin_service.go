package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/models"
	"github.com/noah-isme/flowcoach-api/internal/repository"
)

// DefaultAdminWindow is the trailing window of the admin aggregation.
const DefaultAdminWindow = 10 * time.Hour

const adminCacheKey = "admin:recent_submissions"

// AdminService aggregates recent submissions across all users.
type AdminService interface {
	RecentSubmissions(ctx context.Context) (dto.AdminSubmissionsResponse, error)
}

type adminService struct {
	workflows repository.WorkflowSubmissionRepository
	documents repository.JSONSubmissionRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	window    time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAdminService constructs the admin aggregation. cache may be nil.
func NewAdminService(workflows repository.WorkflowSubmissionRepository, documents repository.JSONSubmissionRepository, cache *redis.Client, ttl, window time.Duration, logger zerolog.Logger) AdminService {
	if window <= 0 {
		window = DefaultAdminWindow
	}
	return &adminService{
		workflows: workflows,
		documents: documents,
		cache:     cache,
		cacheTTL:  ttl,
		window:    window,
		logger:    logger.With().Str("component", "admin_service").Logger(),
		now:       time.Now,
	}
}

func (s *adminService) RecentSubmissions(ctx context.Context) (dto.AdminSubmissionsResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/flowcoach-api/internal/service/admin")
	ctx, span := tracer.Start(ctx, "admin.recent_submissions")
	span.SetAttributes(attribute.String("admin.cache_key", adminCacheKey))
	defer span.End()

	if s.cache != nil && s.cacheTTL > 0 {
		cached, err := s.cache.Get(ctx, adminCacheKey).Result()
		if err == nil {
			var response dto.AdminSubmissionsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("admin.cache_hit", true))
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read admin cache")
			span.RecordError(err)
		}
	}

	now := s.now()
	since := now.Add(-s.window)

	var (
		workflows []models.WorkflowSubmission
		documents []models.JSONSubmission
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		workflows, err = s.workflows.ListSince(groupCtx, since)
		return err
	})
	group.Go(func() error {
		var err error
		documents, err = s.documents.ListSince(groupCtx, since)
		return err
	})
	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_submissions_failed")
		return dto.AdminSubmissionsResponse{}, err
	}

	response := buildAdminResponse(workflows, documents)
	response.WindowHours = s.window.Hours()
	response.Since = since
	response.GeneratedAt = now
	span.SetAttributes(
		attribute.Int("admin.submission_count", len(response.Submissions)),
		attribute.Int("admin.unique_users", response.UniqueUsers),
	)

	if s.cache != nil && s.cacheTTL > 0 {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, adminCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store admin cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

// buildAdminResponse merges both kinds, sorts by score descending (missing scores count
// as zero) then by age, and counts distinct author emails.
func buildAdminResponse(workflows []models.WorkflowSubmission, documents []models.JSONSubmission) dto.AdminSubmissionsResponse {
	items := make([]dto.AdminSubmissionResponse, 0, len(workflows)+len(documents))
	for _, submission := range workflows {
		items = append(items, withAuthor(dto.NewWorkflowSubmissionResponse(submission), submission.UserID, submission.User))
	}
	for _, submission := range documents {
		items = append(items, withAuthor(dto.NewJSONSubmissionResponse(submission), submission.UserID, submission.User))
	}

	sort.SliceStable(items, func(i, j int) bool {
		left, right := scoreValue(items[i].Score), scoreValue(items[j].Score)
		if left != right {
			return left > right
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	emails := make(map[string]struct{}, len(items))
	for _, item := range items {
		emails[item.UserEmail] = struct{}{}
	}

	return dto.AdminSubmissionsResponse{Submissions: items, UniqueUsers: len(emails)}
}

func withAuthor(submission dto.SubmissionResponse, userID string, user models.User) dto.AdminSubmissionResponse {
	name, email := user.Name, user.Email
	if name == "" {
		name = dto.UnknownUser
	}
	if email == "" {
		email = dto.UnknownUser
	}
	return dto.AdminSubmissionResponse{
		SubmissionResponse: submission,
		UserID:             userID,
		UserName:           name,
		UserEmail:          email,
	}
}

func scoreValue(score *float64) float64 {
	if score == nil {
		return 0
	}
	return *score
}
