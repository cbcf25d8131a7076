// Package evaluation models the scoring result returned for a workflow submission and the
// rules used to recover it from free-form model output.
//
// Two shapes coexist in storage: the scored shape, with a five-criterion breakdown out of
// 50, and the legacy shape, with correct/lacking/suggestions feedback and a score out of
// 100. Callers branch on Kind instead of probing for fields.
package evaluation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which evaluation shape a value carries.
type Kind string

const (
	// KindScored is the five-criterion shape with a total out of 50.
	KindScored Kind = "scored"
	// KindLegacy is the older correct/lacking/suggestions shape scored out of 100.
	KindLegacy Kind = "legacy"
)

const (
	// CriterionMax is the maximum score of each rubric criterion.
	CriterionMax = 10
	// ScoredMax is the maximum total of the scored shape.
	ScoredMax = 50
	// LegacyMax is the maximum score of the legacy shape.
	LegacyMax = 100
)

// ErrNotObject is returned when an evaluation payload is not a JSON object.
var ErrNotObject = errors.New("evaluation must be a json object")

// Feedback holds a free-form feedback field. Models return strings most of the time but
// occasionally lists or objects, so the raw JSON value is kept.
type Feedback struct {
	raw json.RawMessage
}

// NewFeedback wraps a plain string.
func NewFeedback(text string) Feedback {
	encoded, _ := json.Marshal(text)
	return Feedback{raw: encoded}
}

// NewFeedbackRaw wraps an arbitrary JSON value.
func NewFeedbackRaw(raw json.RawMessage) Feedback {
	return feedback(raw)
}

// UnmarshalJSON keeps the raw value.
func (f *Feedback) UnmarshalJSON(data []byte) error {
	f.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the raw value, or null when empty.
func (f Feedback) MarshalJSON() ([]byte, error) {
	if len(f.raw) == 0 {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// IsZero reports whether the field was absent or null.
func (f Feedback) IsZero() bool {
	trimmed := bytes.TrimSpace(f.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Raw returns the underlying JSON value.
func (f Feedback) Raw() json.RawMessage {
	return f.raw
}

// Text returns the string value as-is and any other JSON value in compact encoding.
func (f Feedback) Text() string {
	if f.IsZero() {
		return ""
	}
	var text string
	if err := json.Unmarshal(f.raw, &text); err == nil {
		return text
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, f.raw); err != nil {
		return string(f.raw)
	}
	return compact.String()
}

// Scores is the five-criterion rubric breakdown. Each criterion is worth up to 10 points.
type Scores struct {
	ClarityOfUseCase       float64 `json:"clarityOfUseCase"`
	NodeSelection          float64 `json:"nodeSelection"`
	NodeConnectivity       float64 `json:"nodeConnectivity"`
	OptimizationSimplicity float64 `json:"optimizationSimplicity"`
	DocumentationNaming    float64 `json:"documentationNaming"`
}

// Sum adds the five criteria.
func (s Scores) Sum() float64 {
	return s.ClarityOfUseCase + s.NodeSelection + s.NodeConnectivity + s.OptimizationSimplicity + s.DocumentationNaming
}

// Scored is the current evaluation shape.
type Scored struct {
	Matched     *bool
	Correct     Feedback
	Lacking     Feedback
	Suggestions Feedback
	Scores      Scores
	TotalScore  float64
	Verdict     string
}

// Consistent reports whether the criteria add up to the reported total.
func (s Scored) Consistent() bool {
	return s.Scores.Sum() == s.TotalScore
}

// Legacy is the evaluation shape written before the rubric breakdown existed.
type Legacy struct {
	Correct     Feedback
	Lacking     Feedback
	Suggestions Feedback
	Score       float64
}

// Evaluation is a decoded evaluation together with the exact bytes it was decoded from.
type Evaluation struct {
	Kind   Kind
	Scored *Scored
	Legacy *Legacy

	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// Decode classifies and decodes an evaluation payload. A truthy "scores" member selects
// the scored shape; everything else is read as legacy.
func Decode(data []byte) (Evaluation, error) {
	trimmed := bytes.TrimSpace(data)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Evaluation{}, fmt.Errorf("decode evaluation: %w", err)
	}
	if fields == nil {
		return Evaluation{}, ErrNotObject
	}

	eval := Evaluation{
		raw:    append(json.RawMessage(nil), trimmed...),
		fields: fields,
	}

	if truthy(fields["scores"]) {
		scored := Scored{
			Correct:     feedback(fields["correct"]),
			Lacking:     feedback(fields["lacking"]),
			Suggestions: feedback(fields["suggestions"]),
			Scores:      decodeScores(fields["scores"]),
			TotalScore:  number(fields["totalScore"]),
			Verdict:     feedback(fields["verdict"]).Text(),
		}
		var matched bool
		if err := json.Unmarshal(fields["matched"], &matched); err == nil {
			scored.Matched = &matched
		}
		eval.Kind = KindScored
		eval.Scored = &scored
		return eval, nil
	}

	eval.Kind = KindLegacy
	eval.Legacy = &Legacy{
		Correct:     feedback(fields["correct"]),
		Lacking:     feedback(fields["lacking"]),
		Suggestions: feedback(fields["suggestions"]),
		Score:       number(fields["score"]),
	}
	return eval, nil
}

// MustDecode is Decode for trusted literals.
func MustDecode(data string) Evaluation {
	eval, err := Decode([]byte(data))
	if err != nil {
		panic(err)
	}
	return eval
}

// IsZero reports whether the value holds no evaluation.
func (e Evaluation) IsZero() bool {
	return len(e.raw) == 0
}

// Raw returns the exact payload the evaluation was decoded from.
func (e Evaluation) Raw() json.RawMessage {
	return e.raw
}

// MarshalJSON emits the original payload unmodified.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	if e.IsZero() {
		return []byte("null"), nil
	}
	return e.raw, nil
}

// UnmarshalJSON decodes and classifies the payload. A JSON null leaves the value empty.
func (e *Evaluation) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = Evaluation{}
		return nil
	}
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

// TotalScore returns the top-level totalScore member when it is a non-zero number.
func (e Evaluation) TotalScore() (float64, bool) {
	return e.numberField("totalScore")
}

// LegacyScore returns the top-level score member when it is a non-zero number.
func (e Evaluation) LegacyScore() (float64, bool) {
	return e.numberField("score")
}

// Total is the headline score for the evaluation's own scale.
func (e Evaluation) Total() float64 {
	switch e.Kind {
	case KindScored:
		return e.Scored.TotalScore
	case KindLegacy:
		return e.Legacy.Score
	default:
		return 0
	}
}

// Scale is the maximum headline score: 50 for scored evaluations, 100 for legacy ones.
func (e Evaluation) Scale() int {
	if e.Kind == KindScored {
		return ScoredMax
	}
	return LegacyMax
}

func (e Evaluation) numberField(name string) (float64, bool) {
	value := number(e.fields[name])
	return value, value != 0
}

func feedback(raw json.RawMessage) Feedback {
	if len(raw) == 0 {
		return Feedback{}
	}
	return Feedback{raw: raw}
}

// decodeScores reads the rubric breakdown. Each criterion is looked up under the key the
// grading prompt asks for first, then under the short key some stored rows use.
func decodeScores(raw json.RawMessage) Scores {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Scores{}
	}
	return Scores{
		ClarityOfUseCase:       criterion(fields, "clarityOfUseCase", "clarity"),
		NodeSelection:          number(fields["nodeSelection"]),
		NodeConnectivity:       criterion(fields, "nodeConnectivity", "connectivity"),
		OptimizationSimplicity: criterion(fields, "optimizationSimplicity", "optimization"),
		DocumentationNaming:    criterion(fields, "documentationNaming", "documentation"),
	}
}

func criterion(fields map[string]json.RawMessage, key, alias string) float64 {
	if raw, ok := fields[key]; ok && !isNull(raw) {
		return number(raw)
	}
	return number(fields[alias])
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// number reads a JSON number, also accepting numeric strings. Anything else is 0.
func number(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err == nil {
		return value
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return parsed
		}
	}
	return 0
}

// truthy follows JavaScript truthiness for JSON values.
func truthy(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "false", `""`:
		return false
	}
	if value, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return value != 0
	}
	return true
}
