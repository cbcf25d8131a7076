package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/dto"
)

// ViewService hydrates each screen with the user's most recent state.
type ViewService interface {
	Generator(ctx context.Context, userID string) (dto.GeneratorViewResponse, error)
	Evaluator(ctx context.Context, userID string) (dto.EvaluatorViewResponse, error)
	Analyzer(ctx context.Context, userID string) (dto.EvaluatorViewResponse, error)
}

type viewService struct {
	useCases  UseCaseService
	workflows WorkflowEvaluationService
	documents JSONEvaluationService
	logger    zerolog.Logger
}

// NewViewService composes the per-screen hydration queries.
func NewViewService(useCases UseCaseService, workflows WorkflowEvaluationService, documents JSONEvaluationService, logger zerolog.Logger) ViewService {
	return &viewService{
		useCases:  useCases,
		workflows: workflows,
		documents: documents,
		logger:    logger.With().Str("component", "view_service").Logger(),
	}
}

func (s *viewService) Generator(ctx context.Context, userID string) (dto.GeneratorViewResponse, error) {
	latest, err := s.latestUseCases(ctx, userID)
	if err != nil {
		return dto.GeneratorViewResponse{}, err
	}
	return dto.GeneratorViewResponse{Latest: latest}, nil
}

func (s *viewService) Evaluator(ctx context.Context, userID string) (dto.EvaluatorViewResponse, error) {
	return s.evaluatorView(ctx, userID, s.workflows.Latest)
}

func (s *viewService) Analyzer(ctx context.Context, userID string) (dto.EvaluatorViewResponse, error) {
	return s.evaluatorView(ctx, userID, s.documents.Latest)
}

func (s *viewService) evaluatorView(ctx context.Context, userID string, latest func(context.Context, string) (dto.SubmissionResponse, error)) (dto.EvaluatorViewResponse, error) {
	set, err := s.latestUseCases(ctx, userID)
	if err != nil {
		return dto.EvaluatorViewResponse{}, err
	}

	response := dto.EvaluatorViewResponse{UseCases: []string{}}
	if set != nil {
		response.UseCases = set.UseCases
	}

	submission, err := latest(ctx, userID)
	switch {
	case err == nil:
		response.Latest = &submission
	case errors.Is(err, ErrNotFound):
	default:
		return dto.EvaluatorViewResponse{}, err
	}

	return response, nil
}

func (s *viewService) latestUseCases(ctx context.Context, userID string) (*dto.UseCaseSetResponse, error) {
	set, err := s.useCases.Latest(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load latest use cases")
		return nil, err
	}
	return &set, nil
}
