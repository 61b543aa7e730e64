package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: calm clinical blues with clear outcome colors
var (
	Primary   = lipgloss.Color("#3B82F6") // Blue
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Muted = lipgloss.NewStyle().
		Foreground(TextDim)

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Question and review content
var (
	// SystemTag labels the organ system a question belongs to.
	SystemTag = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Stem is the question text.
	Stem = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	// Explanation is set off by a left rule.
	Explanation = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Secondary).
			PaddingLeft(1)

	// Flag marks a question the user wants to revisit.
	Flag = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Divider = lipgloss.NewStyle().
		Foreground(Border)
)

// Outcomes
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 3)
)

// Selection
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Foreground(Text).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// Timer returns the style for the header clock. The countdown turns amber
// inside the last minute and red inside the last fifteen seconds.
func Timer(secondsLeft int, counting bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(Text).Bold(true)
	if !counting {
		return s.Foreground(TextDim)
	}
	switch {
	case secondsLeft <= 15:
		return s.Foreground(Error)
	case secondsLeft <= 60:
		return s.Foreground(Accent)
	}
	return s
}
