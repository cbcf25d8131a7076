package dto

import (
	"bytes"
	"time"

	"github.com/noah-isme/flowcoach-api/internal/evaluation"
	"github.com/noah-isme/flowcoach-api/internal/models"
	"github.com/noah-isme/flowcoach-api/internal/render"
)

// Submission kinds shown in the history and admin views.
const (
	SubmissionKindWorkflow = "workflow"
	SubmissionKindJSON     = "json"
)

// UserProfileResponse describes the signed-in user.
type UserProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// NewUserProfileResponse maps a user model.
func NewUserProfileResponse(user models.User) UserProfileResponse {
	return UserProfileResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}

// NavigationItem is one sidebar entry.
type NavigationItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavigationResponse lists the sidebar entries available to a role.
type NavigationResponse struct {
	Role  string           `json:"role"`
	Items []NavigationItem `json:"items"`
}

// UseCaseSetResponse is a stored generation.
type UseCaseSetResponse struct {
	ID         string    `json:"id"`
	Department string    `json:"department"`
	Task       string    `json:"task"`
	UseCases   []string  `json:"use_cases"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUseCaseSetResponse maps a use-case set model.
func NewUseCaseSetResponse(set models.UseCaseSet) UseCaseSetResponse {
	useCases := make([]string, 0, len(set.GeneratedUseCases))
	useCases = append(useCases, set.GeneratedUseCases...)
	return UseCaseSetResponse{
		ID:         set.ID,
		Department: set.Department,
		Task:       set.Task,
		UseCases:   useCases,
		CreatedAt:  set.CreatedAt,
	}
}

// GeneratorViewResponse hydrates the generator screen with the latest generation.
type GeneratorViewResponse struct {
	Latest *UseCaseSetResponse `json:"latest"`
}

// SubmissionResponse is a workflow or JSON submission prepared for display.
type SubmissionResponse struct {
	ID         string                `json:"id"`
	Kind       string                `json:"kind"`
	UseCase    string                `json:"usecase"`
	Content    string                `json:"content"`
	Preview    string                `json:"preview"`
	Evaluation render.EvaluationView `json:"evaluation"`
	Score      *float64              `json:"score"`
	ScoreLabel string                `json:"score_label,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
}

// NewWorkflowSubmissionResponse maps a free-text submission.
func NewWorkflowSubmissionResponse(model models.WorkflowSubmission) SubmissionResponse {
	return newSubmissionResponse(model.ID, SubmissionKindWorkflow, model.UseCase, model.WorkflowText, evaluatedOnly(model.Evaluation, model.IsEvaluated()), model.Score, model.CreatedAt)
}

// NewJSONSubmissionResponse maps a JSON submission. The stored document is shown indented.
func NewJSONSubmissionResponse(model models.JSONSubmission) SubmissionResponse {
	content, err := render.PrettyJSON(model.WorkflowJSON)
	if err != nil {
		content = string(model.WorkflowJSON)
	}
	return newSubmissionResponse(model.ID, SubmissionKindJSON, model.UseCase, content, evaluatedOnly(model.Evaluation, model.IsEvaluated()), model.Score, model.CreatedAt)
}

func evaluatedOnly(stored []byte, evaluated bool) []byte {
	if !evaluated {
		return nil
	}
	return stored
}

func newSubmissionResponse(id, kind, useCase, content string, stored []byte, score *float64, createdAt time.Time) SubmissionResponse {
	eval := StoredEvaluation(stored)
	return SubmissionResponse{
		ID:         id,
		Kind:       kind,
		UseCase:    useCase,
		Content:    content,
		Preview:    render.Preview(content, render.PreviewLength),
		Evaluation: render.Evaluation(eval),
		Score:      score,
		ScoreLabel: render.ScoreLabel(score, eval),
		CreatedAt:  createdAt,
	}
}

// StoredEvaluation decodes an evaluation column. Null, empty or unreadable values yield
// the zero Evaluation, which renders as pending.
func StoredEvaluation(raw []byte) evaluation.Evaluation {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return evaluation.Evaluation{}
	}
	eval, err := evaluation.Decode(trimmed)
	if err != nil {
		return evaluation.Evaluation{}
	}
	return eval
}

// EvaluatorViewResponse hydrates the workflow evaluator and JSON analyzer screens: the use
// cases to pick from and the latest submission of that kind.
type EvaluatorViewResponse struct {
	UseCases []string            `json:"use_cases"`
	Latest   *SubmissionResponse `json:"latest"`
}

// HistoryResponse lists the user's submissions of both kinds, newest first.
type HistoryResponse struct {
	Items []SubmissionResponse `json:"items"`
}
