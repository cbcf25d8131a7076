package dto

import (
	"encoding/json"

	"github.com/noah-isme/flowcoach-api/internal/evaluation"
)

// GenerateUseCasesRequest is the body of the generate-usecases function.
type GenerateUseCasesRequest struct {
	Department string `json:"department" validate:"required"`
	Task       string `json:"task" validate:"required"`
}

// GenerateUseCasesResponse carries exactly four use cases.
type GenerateUseCasesResponse struct {
	UseCases []string `json:"useCases"`
	Warning  string   `json:"warning,omitempty"`
}

// EvaluateWorkflowRequest is the body of the evaluate-workflow function.
type EvaluateWorkflowRequest struct {
	UseCase      string `json:"useCase" validate:"required"`
	WorkflowText string `json:"workflowText" validate:"required"`
}

// EvaluateJSONRequest is the body of the evaluate-json function. JSONData is any JSON
// value except null.
type EvaluateJSONRequest struct {
	UseCase  string          `json:"useCase" validate:"required"`
	JSONData json.RawMessage `json:"jsonData"`
}

// EvaluationResponse wraps an evaluation exactly as the model produced it.
type EvaluationResponse struct {
	Evaluation evaluation.Evaluation `json:"evaluation"`
	Warning    string                `json:"warning,omitempty"`
}

// FunctionErrorResponse is the failure body of every function endpoint.
type FunctionErrorResponse struct {
	Error string `json:"error"`
}
