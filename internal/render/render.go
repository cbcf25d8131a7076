// Package render turns stored evaluations and submissions into display-ready values.
// Scored and legacy evaluations coexist in storage, so every view branches on the
// evaluation kind rather than on field presence.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/flowcoach-api/internal/evaluation"
)

// PreviewLength is the number of characters shown for submission content in list views.
const PreviewLength = 200

// KindPending marks a submission whose scoring call has not completed.
const KindPending = "pending"

var suggestionSeparators = regexp.MustCompile(`\n|;|\.|•`)

// Criterion is one row of the rubric breakdown.
type Criterion struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// Block is a labelled free-form feedback section of a legacy evaluation.
type Block struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// EvaluationView is the display form of an evaluation.
type EvaluationView struct {
	Kind        string      `json:"kind"`
	Matched     *bool       `json:"matched,omitempty"`
	Criteria    []Criterion `json:"criteria,omitempty"`
	Total       float64     `json:"total"`
	MaxTotal    int         `json:"max_total"`
	Verdict     string      `json:"verdict,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
	Blocks      []Block     `json:"blocks,omitempty"`
}

// Evaluation renders e according to its kind.
func Evaluation(e evaluation.Evaluation) EvaluationView {
	switch e.Kind {
	case evaluation.KindScored:
		return scoredView(e)
	case evaluation.KindLegacy:
		return legacyView(e)
	default:
		return EvaluationView{Kind: KindPending}
	}
}

func scoredView(e evaluation.Evaluation) EvaluationView {
	scored := e.Scored
	total, ok := e.TotalScore()
	if !ok {
		total, _ = e.LegacyScore()
	}

	return EvaluationView{
		Kind:    string(evaluation.KindScored),
		Matched: scored.Matched,
		Criteria: []Criterion{
			{Key: "clarityOfUseCase", Label: "Clarity of Use Case", Score: scored.Scores.ClarityOfUseCase, Max: evaluation.CriterionMax},
			{Key: "nodeSelection", Label: "Node Selection", Score: scored.Scores.NodeSelection, Max: evaluation.CriterionMax},
			{Key: "nodeConnectivity", Label: "Node Connectivity", Score: scored.Scores.NodeConnectivity, Max: evaluation.CriterionMax},
			{Key: "optimizationSimplicity", Label: "Optimization & Simplicity", Score: scored.Scores.OptimizationSimplicity, Max: evaluation.CriterionMax},
			{Key: "documentationNaming", Label: "Documentation & Naming Clarity", Score: scored.Scores.DocumentationNaming, Max: evaluation.CriterionMax},
		},
		Total:       total,
		MaxTotal:    evaluation.ScoredMax,
		Verdict:     scored.Verdict,
		Suggestions: SuggestionItems(scored.Suggestions),
	}
}

func legacyView(e evaluation.Evaluation) EvaluationView {
	legacy := e.Legacy
	return EvaluationView{
		Kind:     string(evaluation.KindLegacy),
		Total:    legacy.Score,
		MaxTotal: evaluation.LegacyMax,
		Blocks: []Block{
			{Label: "Correct", Text: legacy.Correct.Text()},
			{Label: "Lacking", Text: legacy.Lacking.Text()},
			{Label: "Suggestions", Text: legacy.Suggestions.Text()},
		},
	}
}

// Preview truncates content to limit characters, appending "..." when anything was cut.
func Preview(content string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		return content
	}
	runes := []rune(content)
	return string(runes[:limit]) + "..."
}

// PrettyJSON indents a stored JSON document with two spaces, keeping its key order.
func PrettyJSON(raw []byte) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, trimmed, "", "  "); err != nil {
		return "", fmt.Errorf("indent json: %w", err)
	}
	return out.String(), nil
}

// ScoreLabel formats a stored score against the scale implied by its evaluation:
// "n/50" for scored evaluations and "n/100" otherwise. A nil score renders as "".
func ScoreLabel(score *float64, e evaluation.Evaluation) string {
	if score == nil {
		return ""
	}
	return FormatScore(*score) + "/" + strconv.Itoa(e.Scale())
}

// FormatScore prints integral scores without a decimal part.
func FormatScore(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SuggestionItems splits suggestions into list items. Strings are split on newlines,
// semicolons, periods and bullets; arrays render item by item; objects render as a
// single indented JSON item.
func SuggestionItems(f evaluation.Feedback) []string {
	if f.IsZero() {
		return nil
	}

	raw := f.Raw()
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return splitSuggestions(text)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		result := make([]string, 0, len(items))
		for _, item := range items {
			result = append(result, evaluation.NewFeedbackRaw(item).Text())
		}
		return result
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if pretty, err := PrettyJSON(trimmed); err == nil {
			return []string{pretty}
		}
	}

	return []string{f.Text()}
}

func splitSuggestions(text string) []string {
	parts := suggestionSeparators.Split(text, -1)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
