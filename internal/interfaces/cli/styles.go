package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lite-lake/namesilo-ddns/internal/domain/valueobject"
)

const (
	ColorPrimary   = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorWarning   = "#F59E0B"
	ColorError     = "#EF4444"
	ColorSecondary = "#6B7280"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimary))

	ChangeCreateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess))

	ChangeUpdateStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorWarning))

	ChangeFailedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorError))

	ChangeNoopStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondary))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSuccess))
)

func FormatAction(action valueobject.Action) (prefix string, style lipgloss.Style) {
	switch action {
	case valueobject.ActionCreated:
		return "+", ChangeCreateStyle
	case valueobject.ActionUpdated:
		return "~", ChangeUpdateStyle
	case valueobject.ActionFailed:
		return "!", ChangeFailedStyle
	default:
		return " ", ChangeNoopStyle
	}
}

// ActionLabel renders an action as a title-cased word, e.g. "Created".
func ActionLabel(action valueobject.Action) string {
	return cases.Title(language.English).String(strings.ToLower(action.String()))
}

func formatOutcome(o valueobject.Outcome) string {
	prefix, style := FormatAction(o.Action)
	previous := o.Previous
	if previous == "" {
		previous = "None"
	}

	var detail string
	switch o.Action {
	case valueobject.ActionCreated, valueobject.ActionUpdated:
		detail = previous + " -> " + o.New
	case valueobject.ActionUnchanged:
		detail = o.New
	case valueobject.ActionFailed:
		if o.Err != nil {
			detail = o.Err.Error()
		}
	}

	line := prefix + " " + o.FQDN() + " " + o.Type.String() + ": " + detail + " (" + ActionLabel(o.Action) + ")"
	return style.Render(line)
}

// renderOutcomes builds the console summary shared by run and plan.
func renderOutcomes(title string, outcomes valueobject.Outcomes) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n")
	for _, o := range outcomes {
		b.WriteString(formatOutcome(o))
		b.WriteString("\n")
	}
	counts := []string{}
	for _, a := range []valueobject.Action{valueobject.ActionCreated, valueobject.ActionUpdated, valueobject.ActionUnchanged, valueobject.ActionFailed} {
		counts = append(counts, ActionLabel(a)+": "+strconv.Itoa(outcomes.Count(a)))
	}
	b.WriteString(ChangeNoopStyle.Render(strings.Join(counts, ", ")))
	b.WriteString("\n")
	return b.String()
}
