package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantry/internal/drag"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorRow    = lipgloss.Color("#3c3836")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleRow    = lipgloss.NewStyle().Background(ColorRow)
)

// OutcomeColor picks the style for a finished gesture.
func OutcomeColor(k drag.OutcomeKind) lipgloss.Style {
	switch k {
	case drag.OutcomeAccepted:
		return StyleGreen
	case drag.OutcomePending:
		return StyleYellow
	case drag.OutcomeRejected, drag.OutcomeInvalid:
		return StyleRed
	default:
		return StyleDim
	}
}

// Outcome renders a one-line gesture result such as "● accepted 2024-03-02 → 2024-03-04".
func Outcome(out drag.Outcome) string {
	text := "● " + out.Kind.String()
	if out.Start != "" || out.End != "" {
		text += fmt.Sprintf(" %s → %s", out.Start, out.End)
	}
	if out.Err != nil {
		text += " (" + out.Err.Error() + ")"
	}
	return OutcomeColor(out.Kind).Render(text)
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
