package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
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

const evaluationTemperature = 0.3

// WorkflowEvaluationService scores workflows described in free text.
type WorkflowEvaluationService interface {
	Evaluate(ctx context.Context, userID string, payload dto.EvaluateWorkflowRequest) (dto.EvaluationResponse, error)
	Latest(ctx context.Context, userID string) (dto.SubmissionResponse, error)
}

type workflowEvaluationService struct {
	repo      repository.WorkflowSubmissionRepository
	completer ai.Completer
	model     string
	events    SubmissionPublisher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewWorkflowEvaluationService constructs the text evaluation service. events may be nil.
func NewWorkflowEvaluationService(repo repository.WorkflowSubmissionRepository, completer ai.Completer, model string, events SubmissionPublisher, validate *validator.Validate, logger zerolog.Logger) WorkflowEvaluationService {
	if events == nil {
		events = noopPublisher{}
	}
	return &workflowEvaluationService{
		repo:      repo,
		completer: completer,
		model:     model,
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "workflow_evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/flowcoach-api/internal/service/workflow_evaluation"),
	}
}

// Evaluate scores the workflow. Model output must be a bare JSON object; anything else is
// returned as an *evaluation.ParseError.
func (s *workflowEvaluationService) Evaluate(ctx context.Context, userID string, payload dto.EvaluateWorkflowRequest) (dto.EvaluationResponse, error) {
	payload.UseCase = strings.TrimSpace(payload.UseCase)
	payload.WorkflowText = strings.TrimSpace(payload.WorkflowText)
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, &InputError{Message: "Use case and workflow text are required"}
	}

	ctx, span := s.tracer.Start(ctx, "evaluations.workflow")
	defer span.End()

	output, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Model: s.model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: ai.WorkflowTextSystemPrompt},
			{Role: ai.RoleUser, Content: ai.WorkflowTextPrompt(payload.UseCase, payload.WorkflowText)},
		},
		Temperature: evaluationTemperature,
	})
	if err != nil {
		observability.Evaluations().WithLabelValues(dto.SubmissionKindWorkflow, "upstream_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return dto.EvaluationResponse{}, newGenerationError(err)
	}

	eval, err := evaluation.ParseStrict(output)
	if err != nil {
		observability.Evaluations().WithLabelValues(dto.SubmissionKindWorkflow, "parse_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse_failed")
		s.logger.Warn().Err(err).Str("output", output).Msg("model returned unparseable evaluation")
		return dto.EvaluationResponse{}, err
	}
	warnInconsistent(s.logger, eval)

	total, _ := eval.TotalScore()
	submission := models.WorkflowSubmission{
		UserID:       userID,
		UseCase:      payload.UseCase,
		WorkflowText: payload.WorkflowText,
		Evaluation:   datatypes.JSON(eval.Raw()),
		Score:        &total,
	}

	response := dto.EvaluationResponse{Evaluation: eval}
	if err := s.repo.Create(ctx, &submission); err != nil {
		observability.Evaluations().WithLabelValues(dto.SubmissionKindWorkflow, "unsaved").Inc()
		observability.PersistenceFailures().WithLabelValues("workflow_submissions").Inc()
		span.RecordError(err)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store workflow submission")
		return response, &PersistenceError{Table: "workflow_submissions", Err: err}
	}

	observability.Evaluations().WithLabelValues(dto.SubmissionKindWorkflow, "ok").Inc()
	s.events.Publish(ctx, SubmissionEvent{
		Type:         EventWorkflowEvaluated,
		SubmissionID: submission.ID,
		UserID:       userID,
		Score:        submission.Score,
		CreatedAt:    submission.CreatedAt,
	})

	return response, nil
}

func (s *workflowEvaluationService) Latest(ctx context.Context, userID string) (dto.SubmissionResponse, error) {
	submission, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return dto.SubmissionResponse{}, notFound(err)
	}
	return dto.NewWorkflowSubmissionResponse(submission), nil
}

// warnInconsistent logs scored evaluations whose criteria do not add up to totalScore.
// The model's numbers are stored unchanged.
func warnInconsistent(logger zerolog.Logger, eval evaluation.Evaluation) {
	if eval.Kind != evaluation.KindScored || eval.Scored.Consistent() {
		return
	}
	logger.Warn().
		Float64("criteria_sum", eval.Scored.Scores.Sum()).
		Float64("total_score", eval.Scored.TotalScore).
		Msg("evaluation total does not match criteria")
}
