package evaluation

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// UseCaseCount is the exact number of use cases produced per generation.
const UseCaseCount = 4

var (
	listMarker = regexp.MustCompile(`(?:\d+\.|\*|-)\s+`)

	leadingNumber = regexp.MustCompile(`^\d+\.\s*`)
	leadingStar   = regexp.MustCompile(`^\*\s*`)
	leadingDash   = regexp.MustCompile(`^-\s*`)

	markupPolicy = bluemonday.StrictPolicy()
)

// ParseUseCases turns model output into exactly four cleaned use cases. A JSON array is
// preferred; otherwise the text is split on numbered or bulleted list markers. Missing
// entries are filled with a generic use case built from the department and task.
func ParseUseCases(output, department, task string) []string {
	candidates, ok := decodeArray(output)
	if !ok {
		candidates = splitList(output)
	}

	result := make([]string, 0, UseCaseCount)
	for _, candidate := range candidates {
		cleaned := CleanUseCase(candidate)
		if cleaned == "" {
			continue
		}
		result = append(result, cleaned)
		if len(result) == UseCaseCount {
			break
		}
	}

	for len(result) < UseCaseCount {
		result = append(result, PlaceholderUseCase(department, task))
	}

	return result
}

// PlaceholderUseCase is the generic entry used to pad short generations.
func PlaceholderUseCase(department, task string) string {
	return fmt.Sprintf("Automate %s workflow for %s department",
		strings.ToLower(strings.TrimSpace(task)),
		strings.ToLower(strings.TrimSpace(department)))
}

// CleanUseCase strips a leading list marker remnant and any markup.
func CleanUseCase(value string) string {
	value = leadingNumber.ReplaceAllString(value, "")
	value = leadingStar.ReplaceAllString(value, "")
	value = leadingDash.ReplaceAllString(value, "")
	value = html.UnescapeString(markupPolicy.Sanitize(value))
	return strings.TrimSpace(value)
}

func decodeArray(output string) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(output), &items); err != nil {
		return nil, false
	}
	if items == nil {
		return nil, false
	}

	values := make([]string, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			values = append(values, text)
			continue
		}
		values = append(values, feedback(item).Text())
	}
	return values, true
}

func splitList(output string) []string {
	parts := listMarker.Split(output, -1)
	if len(parts) <= 1 {
		return nil
	}
	values := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		values = append(values, strings.TrimSpace(part))
	}
	return values
}
