package evaluation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeScoredShape(t *testing.T) {
	eval, err := Decode([]byte(`{
		"matched": true,
		"correct": "Clear trigger",
		"lacking": ["error handling"],
		"suggestions": {"add": "retry node"},
		"scores": {"clarityOfUseCase": 8, "nodeSelection": 7, "nodeConnectivity": 9, "optimizationSimplicity": 6, "documentationNaming": 5},
		"totalScore": 35,
		"verdict": "Solid start"
	}`))
	require.NoError(t, err)
	require.Equal(t, KindScored, eval.Kind)
	require.Nil(t, eval.Legacy)
	require.NotNil(t, eval.Scored.Matched)
	require.True(t, *eval.Scored.Matched)
	require.Equal(t, 35.0, eval.Scored.Scores.Sum())
	require.True(t, eval.Scored.Consistent())
	require.Equal(t, "Clear trigger", eval.Scored.Correct.Text())
	require.Equal(t, `["error handling"]`, eval.Scored.Lacking.Text())
	require.Equal(t, `{"add":"retry node"}`, eval.Scored.Suggestions.Text())
	require.Equal(t, "Solid start", eval.Scored.Verdict)
	require.Equal(t, ScoredMax, eval.Scale())
	require.Equal(t, 35.0, eval.Total())
}

func TestDecodeLegacyShape(t *testing.T) {
	eval, err := Decode([]byte(`{"correct":"Good naming","lacking":"No tests","suggestions":"Add tests","score":82}`))
	require.NoError(t, err)
	require.Equal(t, KindLegacy, eval.Kind)
	require.Nil(t, eval.Scored)
	require.Equal(t, "Good naming", eval.Legacy.Correct.Text())
	require.Equal(t, 82.0, eval.Legacy.Score)
	require.Equal(t, LegacyMax, eval.Scale())

	_, hasTotal := eval.TotalScore()
	require.False(t, hasTotal)
	score, hasScore := eval.LegacyScore()
	require.True(t, hasScore)
	require.Equal(t, 82.0, score)
}

func TestDecodeTreatsFalsyScoresAsLegacy(t *testing.T) {
	for _, payload := range []string{
		`{"scores": null, "score": 10}`,
		`{"scores": 0}`,
		`{"scores": ""}`,
		`{"scores": false}`,
	} {
		eval, err := Decode([]byte(payload))
		require.NoError(t, err, payload)
		require.Equal(t, KindLegacy, eval.Kind, payload)
	}
}

func TestDecodeMissingCriteriaReadAsZero(t *testing.T) {
	eval, err := Decode([]byte(`{"scores":{"nodeSelection":"6"},"totalScore":6}`))
	require.NoError(t, err)
	require.Equal(t, Scores{NodeSelection: 6}, eval.Scored.Scores)
	require.Nil(t, eval.Scored.Matched)
}

func TestDecodeAcceptsShortScoreKeys(t *testing.T) {
	eval, err := Decode([]byte(`{"scores":{"clarity":8,"nodeSelection":9,"connectivity":7,"optimization":6,"documentation":5},"totalScore":35}`))
	require.NoError(t, err)
	require.Equal(t, Scores{
		ClarityOfUseCase:       8,
		NodeSelection:          9,
		NodeConnectivity:       7,
		OptimizationSimplicity: 6,
		DocumentationNaming:    5,
	}, eval.Scored.Scores)
	require.True(t, eval.Scored.Consistent())
}

func TestDecodePrefersPromptScoreKeys(t *testing.T) {
	eval, err := Decode([]byte(`{"scores":{"clarityOfUseCase":4,"clarity":9,"nodeConnectivity":null,"connectivity":3},"totalScore":7}`))
	require.NoError(t, err)
	require.Equal(t, 4.0, eval.Scored.Scores.ClarityOfUseCase)
	require.Equal(t, 3.0, eval.Scored.Scores.NodeConnectivity)
	require.True(t, eval.Scored.Consistent())
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	_, err := Decode([]byte(`null`))
	require.True(t, errors.Is(err, ErrNotObject))

	_, err = Decode([]byte(`[1,2]`))
	require.Error(t, err)
}

func TestEvaluationMarshalKeepsOriginalBytes(t *testing.T) {
	payload := `{"verdict":"ok","totalScore":40,"scores":{"nodeSelection":10}}`
	eval := MustDecode(payload)

	encoded, err := json.Marshal(struct {
		Evaluation Evaluation `json:"evaluation"`
	}{eval})
	require.NoError(t, err)
	require.JSONEq(t, `{"evaluation":`+payload+`}`, string(encoded))
	require.Contains(t, string(encoded), payload)

	var roundTrip struct {
		Evaluation Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal(encoded, &roundTrip))
	require.Equal(t, KindScored, roundTrip.Evaluation.Kind)
	require.Equal(t, payload, string(roundTrip.Evaluation.Raw()))
}

func TestEvaluationNullRoundTrip(t *testing.T) {
	var holder struct {
		Evaluation Evaluation `json:"evaluation"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"evaluation":null}`), &holder))
	require.True(t, holder.Evaluation.IsZero())

	encoded, err := json.Marshal(holder)
	require.NoError(t, err)
	require.JSONEq(t, `{"evaluation":null}`, string(encoded))
}

func TestFeedbackText(t *testing.T) {
	require.Equal(t, "plain", NewFeedback("plain").Text())
	require.Equal(t, "", Feedback{}.Text())
	require.True(t, Feedback{}.IsZero())
	require.Equal(t, `[1,2]`, feedback(json.RawMessage(`[ 1, 2 ]`)).Text())
}
