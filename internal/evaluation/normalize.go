package evaluation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fallbackPayload is substituted when a JSON-workflow evaluation cannot be recovered from
// the model output.
const fallbackPayload = `{"matched":false,` +
	`"correct":"Evaluation attempted but parsing failed",` +
	`"lacking":"Technical issue prevented detailed analysis",` +
	`"suggestions":"Please try submitting your workflow again",` +
	`"scores":{"clarityOfUseCase":7,"nodeSelection":7,"nodeConnectivity":7,"optimizationSimplicity":7,"documentationNaming":7},` +
	`"totalScore":35,` +
	`"verdict":"Evaluation completed with technical limitations - please retry for detailed feedback"}`

// requiredShapeSchema accepts objects with a truthy scores member and a numeric totalScore.
const requiredShapeSchema = `{
  "type": "object",
  "required": ["scores", "totalScore"],
  "properties": {
    "scores": {"not": {"enum": [null, false, 0, ""]}},
    "totalScore": {"type": "number"}
  }
}`

var (
	requiredShape = jsonschema.MustCompileString("evaluation-shape.json", requiredShapeSchema)

	jsonFence    = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	genericFence = regexp.MustCompile("```\\s*([\\s\\S]*?)\\s*```")
)

// ParseError reports model output that could not be read as an evaluation.
type ParseError struct {
	Output string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model response is not valid evaluation json: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Fallback returns the fixed evaluation used when model output is unusable.
func Fallback() Evaluation {
	return MustDecode(fallbackPayload)
}

// IsFallback reports whether e is the fixed fallback evaluation.
func IsFallback(e Evaluation) bool {
	return string(e.Raw()) == fallbackPayload
}

// ParseStrict decodes model output directly. No cleanup is attempted.
func ParseStrict(output string) (Evaluation, error) {
	eval, err := Decode([]byte(strings.TrimSpace(output)))
	if err != nil {
		return Evaluation{}, &ParseError{Output: output, Err: err}
	}
	return eval, nil
}

// ParseLenient recovers an evaluation from model output that may be wrapped in Markdown
// fences or prose. It never fails: when the output cannot be decoded, or lacks scores or a
// numeric totalScore, the fixed Fallback is returned and usedFallback is true.
func ParseLenient(output string) (eval Evaluation, usedFallback bool) {
	cleaned := extractObject(stripFences(strings.TrimSpace(output)))

	var document interface{}
	if err := json.Unmarshal([]byte(cleaned), &document); err != nil {
		return Fallback(), true
	}
	if err := requiredShape.Validate(document); err != nil {
		return Fallback(), true
	}

	eval, err := Decode([]byte(cleaned))
	if err != nil {
		return Fallback(), true
	}
	return eval, false
}

// stripFences returns the body of the first ```json block, or of the first fenced block
// when no block is tagged json.
func stripFences(text string) string {
	switch {
	case strings.Contains(text, "```json"):
		if match := jsonFence.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	case strings.Contains(text, "```"):
		if match := genericFence.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return text
}

// extractObject slices from the first '{' to the last '}' when both are present.
func extractObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}
	return text
}
