package evaluation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUseCasesFromJSONArray(t *testing.T) {
	output := `["Route inbound leads to sales", "Score leads from form data", "Sync CRM & email lists", "Alert on hot leads"]`

	useCases := ParseUseCases(output, "Marketing", "Lead scoring")
	require.Equal(t, []string{
		"Route inbound leads to sales",
		"Score leads from form data",
		"Sync CRM & email lists",
		"Alert on hot leads",
	}, useCases)
}

func TestParseUseCasesPadsShortArray(t *testing.T) {
	output := `["One", "Two", "Three"]`

	useCases := ParseUseCases(output, "Marketing", "Lead scoring")
	require.Len(t, useCases, 4)
	require.Equal(t, "Automate lead scoring workflow for marketing department", useCases[3])
}

func TestParseUseCasesTruncatesLongArray(t *testing.T) {
	useCases := ParseUseCases(`["a","b","c","d","e","f"]`, "Ops", "Reporting")
	require.Equal(t, []string{"a", "b", "c", "d"}, useCases)
}

func TestParseUseCasesFallsBackToNumberedList(t *testing.T) {
	output := "Here are some ideas:\n1. Invoice reconciliation from ERP exports\n2. Refund processing alerts\n3. Budget variance digest\n4. GST filing reminders\n5. Extra idea"

	useCases := ParseUseCases(output, "Accounting", "Payments")
	require.Equal(t, []string{
		"Invoice reconciliation from ERP exports",
		"Refund processing alerts",
		"Budget variance digest",
		"GST filing reminders",
	}, useCases)
}

func TestParseUseCasesFallsBackToBullets(t *testing.T) {
	output := "* Draft newsletter outline\n- Translate social posts"

	useCases := ParseUseCases(output, "Content Team", "Publishing")
	require.Equal(t, "Draft newsletter outline", useCases[0])
	require.Equal(t, "Translate social posts", useCases[1])
	require.Equal(t, "Automate publishing workflow for content team department", useCases[2])
	require.Equal(t, useCases[2], useCases[3])
}

func TestParseUseCasesWithoutAnyStructure(t *testing.T) {
	useCases := ParseUseCases("no list here", "Design", "Prototyping")
	require.Len(t, useCases, 4)
	for _, useCase := range useCases {
		require.Equal(t, "Automate prototyping workflow for design department", useCase)
	}
}

func TestParseUseCasesAlwaysReturnsFourNonEmptyTrimmed(t *testing.T) {
	outputs := []string{
		``,
		`[]`,
		`["", "   ", "1. "]`,
		`null`,
		`{"useCases": ["a"]}`,
		"1.\n2.\n3.",
		`["  padded  ", 42, {"k": "v"}]`,
	}

	for _, output := range outputs {
		useCases := ParseUseCases(output, "Program Management", "Onboarding")
		require.Len(t, useCases, UseCaseCount, output)
		for _, useCase := range useCases {
			require.NotEmpty(t, useCase, output)
			require.Equal(t, strings.TrimSpace(useCase), useCase, output)
		}
	}
}

func TestCleanUseCaseStripsMarkersAndMarkup(t *testing.T) {
	require.Equal(t, "Send digest", CleanUseCase("2. Send digest"))
	require.Equal(t, "Send digest", CleanUseCase("* Send digest"))
	require.Equal(t, "Send digest", CleanUseCase("- Send digest "))
	require.Equal(t, "Send digest", CleanUseCase("<b>Send</b> digest"))
	require.Equal(t, "Tom's report", CleanUseCase("Tom's report"))
}
