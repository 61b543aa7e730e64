package stats

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// Source supplies the overview for the logged-in user.
type Source interface {
	Username() string
	Overview() *practice.Overview
}

// StatsScreen shows per-system progress.
type StatsScreen struct {
	source Source
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)
var _ screen.StatusProvider = (*StatsScreen)(nil)

// New creates a StatsScreen.
func New(source Source) *StatsScreen {
	return &StatsScreen{source: source}
}

func (s *StatsScreen) Init() tea.Cmd {
	return nil
}

func (s *StatsScreen) Title() string {
	return "Progress"
}

func (s *StatsScreen) Status() string {
	return s.source.Username()
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	ov := s.source.Overview()
	cw := min(width-8, 80)

	labelWidth := lipgloss.Width(ov.All.System)
	for _, row := range ov.Systems {
		labelWidth = max(labelWidth, lipgloss.Width(row.System))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Attempted per system"))
	b.WriteString("\n\n")

	for _, row := range ov.Systems {
		b.WriteString(renderRow(row, labelWidth, cw))
		b.WriteString("\n")
	}
	b.WriteString(theme.Divider.Render(strings.Repeat("─", cw)))
	b.WriteString("\n")
	b.WriteString(renderRow(ov.All, labelWidth, cw))
	b.WriteString("\n\n")

	b.WriteString(theme.Hint.Render(fmt.Sprintf(
		"%d unused  ·  %d correct  ·  %d incorrect  ·  %d marked  ·  accuracy %.0f%%",
		ov.All.Unused(), ov.All.Correct, ov.All.Incorrect, ov.All.Marked, ov.All.Accuracy()*100)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

// renderRow draws one system's bar followed by its accuracy.
func renderRow(row practice.SystemStats, labelWidth, width int) string {
	acc := "   -"
	if row.Attempted > 0 {
		acc = fmt.Sprintf("%3.0f%%", row.Accuracy()*100)
	}
	accCol := theme.SystemTag.UnsetBold().Render("  " + acc)

	bar := components.NewProgressBar(row.System, row.Attempted, row.Total, width-lipgloss.Width(accCol))
	bar.LabelWidth = labelWidth
	return bar.View() + accCol
}
