package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/evaluation"
	"github.com/noah-isme/flowcoach-api/internal/repository"
)

const workflowDocument = `{"name":"Lead router","nodes":[{"type":"n8n-nodes-base.webhook","name":"Webhook"}],"connections":{}}`

func newJSONService(t *testing.T, completer *stubCompleter, events SubmissionPublisher, maxUpload int64) (JSONEvaluationService, repository.JSONSubmissionRepository) {
	t.Helper()
	repo := repository.NewJSONSubmissionRepository(setupServiceDB(t))
	return NewJSONEvaluationService(repo, completer, "", events, maxUpload, testValidator(), testLogger()), repo
}

func TestJSONEvaluationServiceExtractsFencedReply(t *testing.T) {
	completer := &stubCompleter{output: "Evaluation below\n```json\n" + scoredReply + "\n```"}
	svc, repo := newJSONService(t, completer, nil, 0)

	response, err := svc.Evaluate(context.Background(), "user-1", dto.EvaluateJSONRequest{UseCase: "Route leads", JSONData: json.RawMessage(workflowDocument)})
	require.NoError(t, err)
	require.Equal(t, scoredReply, string(response.Evaluation.Raw()))

	request := completer.lastRequest(t)
	require.Contains(t, request.Messages[1].Content, "{\n  \"name\": \"Lead router\",\n  \"nodes\": [")

	stored, err := repo.LatestByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, workflowDocument, string(stored.WorkflowJSON))
	require.Equal(t, 38.0, *stored.Score)

	latest, err := svc.Latest(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, dto.SubmissionKindJSON, latest.Kind)
	require.Contains(t, latest.Content, "\n  \"connections\": {}\n}")
}

func TestJSONEvaluationServiceFallsBackOnProse(t *testing.T) {
	events := &recordingPublisher{}
	svc, repo := newJSONService(t, &stubCompleter{output: "I am unable to evaluate this workflow."}, events, 0)

	response, err := svc.Evaluate(context.Background(), "user-1", dto.EvaluateJSONRequest{UseCase: "Route leads", JSONData: json.RawMessage(workflowDocument)})
	require.NoError(t, err)
	require.True(t, evaluation.IsFallback(response.Evaluation))
	require.Equal(t, 35.0, response.Evaluation.Scored.TotalScore)

	stored, err := repo.LatestByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 35.0, *stored.Score)

	require.Len(t, events.events, 1)
	require.True(t, events.events[0].Fallback)
	require.Equal(t, EventJSONEvaluated, events.events[0].Type)
}

func TestJSONEvaluationServiceRejectsMissingDocument(t *testing.T) {
	completer := &stubCompleter{output: scoredReply}
	svc, _ := newJSONService(t, completer, nil, 0)

	for _, raw := range []string{"", "null", "  null  "} {
		_, err := svc.Evaluate(context.Background(), "user-1", dto.EvaluateJSONRequest{UseCase: "Route leads", JSONData: json.RawMessage(raw)})
		require.ErrorIs(t, err, ErrInvalidInput, raw)
	}

	_, err := svc.Evaluate(context.Background(), "user-1", dto.EvaluateJSONRequest{UseCase: "Route leads", JSONData: json.RawMessage(`{"broken":`)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Equal(t, "jsonData must be valid JSON", err.Error())

	_, err = svc.Evaluate(context.Background(), "user-1", dto.EvaluateJSONRequest{JSONData: json.RawMessage(workflowDocument)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, completer.requests)
}

func TestJSONEvaluationServiceAcceptsNonObjectDocuments(t *testing.T) {
	svc, repo := newJSONService(t, &stubCompleter{output: scoredReply}, nil, 0)

	_, err := svc.Evaluate(context.Background(), "user-1", dto.EvaluateJSONRequest{UseCase: "Route leads", JSONData: json.RawMessage(`[1, 2, 3]`)})
	require.NoError(t, err)

	stored, err := repo.LatestByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, `[1, 2, 3]`, string(stored.WorkflowJSON))
}

func TestJSONEvaluationServiceEvaluateUpload(t *testing.T) {
	svc, repo := newJSONService(t, &stubCompleter{output: scoredReply}, nil, 0)

	file := newFileHeader(t, "file", "workflow.json", []byte(workflowDocument))
	response, err := svc.EvaluateUpload(context.Background(), "user-1", "Route leads", file)
	require.NoError(t, err)
	require.Equal(t, evaluation.KindScored, response.Evaluation.Kind)

	stored, err := repo.LatestByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, workflowDocument, string(stored.WorkflowJSON))
}

func TestJSONEvaluationServiceEvaluateUploadRejectsBadFiles(t *testing.T) {
	completer := &stubCompleter{output: scoredReply}
	svc, _ := newJSONService(t, completer, nil, 64)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
	_, err := svc.EvaluateUpload(context.Background(), "user-1", "Route leads", newFileHeader(t, "file", "diagram.png", png))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.EvaluateUpload(context.Background(), "user-1", "Route leads", newFileHeader(t, "file", "workflow.json", []byte(workflowDocument)))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "64 byte limit")

	_, err = svc.EvaluateUpload(context.Background(), "user-1", "Route leads", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, completer.requests)
}

func TestStoredScorePrefersTotal(t *testing.T) {
	require.Equal(t, 40.0, *storedScore(evaluation.MustDecode(`{"scores":{"nodeSelection":10},"totalScore":40,"score":90}`)))
	require.Equal(t, 90.0, *storedScore(evaluation.MustDecode(`{"scores":{"nodeSelection":10},"totalScore":0,"score":90}`)))
	require.Nil(t, storedScore(evaluation.MustDecode(`{"correct":"x"}`)))
}
