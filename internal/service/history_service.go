package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/models"
	"github.com/noah-isme/flowcoach-api/internal/repository"
)

// HistoryService lists a user's submissions of both kinds.
type HistoryService interface {
	List(ctx context.Context, userID string) (dto.HistoryResponse, error)
}

type historyService struct {
	workflows repository.WorkflowSubmissionRepository
	documents repository.JSONSubmissionRepository
	logger    zerolog.Logger
}

// NewHistoryService constructs the history service.
func NewHistoryService(workflows repository.WorkflowSubmissionRepository, documents repository.JSONSubmissionRepository, logger zerolog.Logger) HistoryService {
	return &historyService{
		workflows: workflows,
		documents: documents,
		logger:    logger.With().Str("component", "history_service").Logger(),
	}
}

func (s *historyService) List(ctx context.Context, userID string) (dto.HistoryResponse, error) {
	var (
		workflows []models.WorkflowSubmission
		documents []models.JSONSubmission
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		workflows, err = s.workflows.ListByUser(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		documents, err = s.documents.ListByUser(groupCtx, userID)
		return err
	})
	if err := group.Wait(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load history")
		return dto.HistoryResponse{}, err
	}

	items := make([]dto.SubmissionResponse, 0, len(workflows)+len(documents))
	for _, submission := range workflows {
		items = append(items, dto.NewWorkflowSubmissionResponse(submission))
	}
	for _, submission := range documents {
		items = append(items, dto.NewJSONSubmissionResponse(submission))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	return dto.HistoryResponse{Items: items}, nil
}
