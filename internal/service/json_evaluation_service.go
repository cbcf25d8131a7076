package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
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
	"github.com/noah-isme/flowcoach-api/internal/render"
	"github.com/noah-isme/flowcoach-api/internal/repository"
	"github.com/noah-isme/flowcoach-api/pkg/ai"
)

// DefaultMaxUploadBytes caps uploaded workflow documents when no limit is configured.
const DefaultMaxUploadBytes int64 = 2 << 20

// JSONEvaluationService scores exported workflow documents.
type JSONEvaluationService interface {
	Evaluate(ctx context.Context, userID string, payload dto.EvaluateJSONRequest) (dto.EvaluationResponse, error)
	EvaluateUpload(ctx context.Context, userID, useCase string, file *multipart.FileHeader) (dto.EvaluationResponse, error)
	Latest(ctx context.Context, userID string) (dto.SubmissionResponse, error)
}

type jsonEvaluationService struct {
	repo           repository.JSONSubmissionRepository
	completer      ai.Completer
	model          string
	events         SubmissionPublisher
	maxUploadBytes int64
	validator      *validator.Validate
	logger         zerolog.Logger
	tracer         trace.Tracer
}

// NewJSONEvaluationService constructs the document evaluation service. events may be nil.
func NewJSONEvaluationService(repo repository.JSONSubmissionRepository, completer ai.Completer, model string, events SubmissionPublisher, maxUploadBytes int64, validate *validator.Validate, logger zerolog.Logger) JSONEvaluationService {
	if events == nil {
		events = noopPublisher{}
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &jsonEvaluationService{
		repo:           repo,
		completer:      completer,
		model:          model,
		events:         events,
		maxUploadBytes: maxUploadBytes,
		validator:      validate,
		logger:         logger.With().Str("component", "json_evaluation_service").Logger(),
		tracer:         otel.Tracer("github.com/noah-isme/flowcoach-api/internal/service/json_evaluation"),
	}
}

// Evaluate scores the document. It never fails on model output: unusable replies yield
// evaluation.Fallback().
func (s *jsonEvaluationService) Evaluate(ctx context.Context, userID string, payload dto.EvaluateJSONRequest) (dto.EvaluationResponse, error) {
	payload.UseCase = strings.TrimSpace(payload.UseCase)
	document := bytes.TrimSpace(payload.JSONData)
	if err := s.validator.Struct(payload); err != nil || len(document) == 0 || bytes.Equal(document, []byte("null")) {
		return dto.EvaluationResponse{}, &InputError{Message: "Use case and JSON data are required"}
	}
	if !json.Valid(document) {
		return dto.EvaluationResponse{}, &InputError{Message: "jsonData must be valid JSON"}
	}

	pretty, err := render.PrettyJSON(document)
	if err != nil {
		return dto.EvaluationResponse{}, &InputError{Message: "jsonData must be valid JSON"}
	}

	ctx, span := s.tracer.Start(ctx, "evaluations.json", trace.WithAttributes(
		attribute.Int("evaluations.document_bytes", len(document)),
	))
	defer span.End()

	output, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Model: s.model,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: ai.WorkflowJSONSystemPrompt},
			{Role: ai.RoleUser, Content: ai.WorkflowJSONPrompt(payload.UseCase, pretty)},
		},
		Temperature: evaluationTemperature,
	})
	if err != nil {
		observability.Evaluations().WithLabelValues(dto.SubmissionKindJSON, "upstream_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return dto.EvaluationResponse{}, newGenerationError(err)
	}

	eval, usedFallback := evaluation.ParseLenient(output)
	span.SetAttributes(attribute.Bool("evaluations.fallback", usedFallback))
	if usedFallback {
		s.logger.Warn().Str("output", output).Msg("model output unusable, substituting fallback evaluation")
	} else {
		warnInconsistent(s.logger, eval)
	}

	submission := models.JSONSubmission{
		UserID:       userID,
		UseCase:      payload.UseCase,
		WorkflowJSON: datatypes.JSON(document),
		Evaluation:   datatypes.JSON(eval.Raw()),
		Score:        storedScore(eval),
	}

	response := dto.EvaluationResponse{Evaluation: eval}
	if err := s.repo.Create(ctx, &submission); err != nil {
		observability.Evaluations().WithLabelValues(dto.SubmissionKindJSON, "unsaved").Inc()
		observability.PersistenceFailures().WithLabelValues(submission.TableName()).Inc()
		span.RecordError(err)
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store json submission")
		return response, &PersistenceError{Table: submission.TableName(), Err: err}
	}

	outcome := "ok"
	if usedFallback {
		outcome = "fallback"
	}
	observability.Evaluations().WithLabelValues(dto.SubmissionKindJSON, outcome).Inc()
	s.events.Publish(ctx, SubmissionEvent{
		Type:         EventJSONEvaluated,
		SubmissionID: submission.ID,
		UserID:       userID,
		Score:        submission.Score,
		Fallback:     usedFallback,
		CreatedAt:    submission.CreatedAt,
	})

	return response, nil
}

// EvaluateUpload reads an uploaded workflow export and evaluates it.
func (s *jsonEvaluationService) EvaluateUpload(ctx context.Context, userID, useCase string, file *multipart.FileHeader) (dto.EvaluationResponse, error) {
	if file == nil {
		return dto.EvaluationResponse{}, &InputError{Message: "A workflow JSON file is required"}
	}
	if file.Size > s.maxUploadBytes {
		return dto.EvaluationResponse{}, &InputError{Message: fmt.Sprintf("Workflow file exceeds the %d byte limit", s.maxUploadBytes)}
	}

	src, err := file.Open()
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxUploadBytes+1))
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return dto.EvaluationResponse{}, &InputError{Message: fmt.Sprintf("Workflow file exceeds the %d byte limit", s.maxUploadBytes)}
	}

	if !isJSONDocument(data) {
		s.logger.Warn().Str("filename", file.Filename).Str("mime", mimetype.Detect(data).String()).Msg("rejected non-json upload")
		return dto.EvaluationResponse{}, &InputError{Message: "Uploaded file must be a JSON document"}
	}

	return s.Evaluate(ctx, userID, dto.EvaluateJSONRequest{UseCase: useCase, JSONData: data})
}

func (s *jsonEvaluationService) Latest(ctx context.Context, userID string) (dto.SubmissionResponse, error) {
	submission, err := s.repo.LatestByUser(ctx, userID)
	if err != nil {
		return dto.SubmissionResponse{}, notFound(err)
	}
	return dto.NewJSONSubmissionResponse(submission), nil
}

// isJSONDocument accepts content sniffed as JSON. Large documents are only sniffed up to
// the detector's read limit, so plain text that parses as JSON is accepted too.
func isJSONDocument(data []byte) bool {
	detected := mimetype.Detect(data)
	if detected.Is("application/json") {
		return json.Valid(data)
	}
	return detected.Is("text/plain") && json.Valid(data)
}

// storedScore is totalScore when non-zero, otherwise the legacy score member.
func storedScore(eval evaluation.Evaluation) *float64 {
	if total, ok := eval.TotalScore(); ok {
		return &total
	}
	if score, ok := eval.LegacyScore(); ok {
		return &score
	}
	return nil
}
