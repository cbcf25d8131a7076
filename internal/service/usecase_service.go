package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/evaluation"
	"github.com/noah-isme/flowcoach-api/internal/models"
	"github.com/noah-isme/flowcoach-api/internal/observability"
	"github.com/noah-isme/flowcoach-api/internal/repository"
	"github.com/noah-isme/flowcoach-api/pkg/ai"
)

const (
	generationTemperature = 0.8
	generationMaxTokens   = 1000
)

// UseCaseService generates automation use cases for a department and task.
type UseCaseService interface {
	Generate(ctx context.Context, userID string, payload dto.GenerateUseCasesRequest) (dto.GenerateUseCasesResponse, error)
	Latest(ctx context.Context, userID string) (dto.UseCaseSetResponse, error)
}

type useCaseService struct {
	repo      repository.UseCaseRepository
	completer ai.Completer
	model     string
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewUseCaseService constructs the generation service. An empty model defers to the completer's default.
func NewUseCaseService(repo repository.UseCaseRepository, completer ai.Completer, model string, validate *validator.Validate, logger zerolog.Logger) UseCaseService {
	return &useCaseService{
		repo:      repo,
		completer: completer,
		model:     model,
		validator: validate,
		logger:    logger.With().Str("component", "usecase_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/flowcoach-api/internal/service/usecase"),
	}
}

func (s *useCaseService) Generate(ctx context.Context, userID string, payload dto.GenerateUseCasesRequest) (dto.GenerateUseCasesResponse, error) {
	payload.Department = strings.TrimSpace(payload.Department)
	payload.Task = strings.TrimSpace(payload.Task)
	if err := s.validator.Struct(payload); err != nil {
		return dto.GenerateUseCasesResponse{}, &InputError{Message: "Department and task are required"}
	}

	ctx, span := s.tracer.Start(ctx, "usecases.generate", trace.WithAttributes(
		attribute.String("usecases.department", payload.Department),
	))
	defer span.End()

	output, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Model: s.model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: ai.UseCaseSystemPrompt},
			{Role: ai.RoleUser, Content: ai.UseCasePrompt(payload.Department, payload.Task)},
		},
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
	})
	if err != nil {
		observability.Generations().WithLabelValues("upstream_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return dto.GenerateUseCasesResponse{}, newGenerationError(err)
	}

	useCases := evaluation.ParseUseCases(output, payload.Department, payload.Task)
	response := dto.GenerateUseCasesResponse{UseCases: useCases}

	set := models.UseCaseSet{
		UserID:            userID,
		Department:        payload.Department,
		Task:              payload.Task,
		GeneratedUseCases: datatypes.JSONSlice[string](useCases),
	}
	if err := s.repo.Create(ctx, &set); err != nil {
		observability.Generations().WithLabelValues("unsaved").Inc()
		observability.PersistenceFailures().WithLabelValues(set.TableName()).Inc()
		span.RecordError(err)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store generated use cases")
		return response, &PersistenceError{Table: set.TableName(), Err: err}
	}

	observability.Generations().WithLabelValues("ok").Inc()
	s.logger.Info().Str("user_id", userID).Str("usecase_set_id", set.ID).Msg("use cases generated")

	return response, nil
}

func (s *useCaseService) Latest(ctx context.Context, userID string) (dto.UseCaseSetResponse, error) {
	set, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return dto.UseCaseSetResponse{}, notFound(err)
	}
	return dto.NewUseCaseSetResponse(set), nil
}
