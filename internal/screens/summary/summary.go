package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// Closer resets a finished session. *practice.Desk satisfies it.
type Closer interface {
	NewSession() error
}

// SummaryScreen displays the session score and the review list.
type SummaryScreen struct {
	desk    Closer
	summary *session.SessionSummary
	offset  int // first review item shown
	errMsg  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.Modal = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(desk Closer, summary *session.SessionSummary) *SummaryScreen {
	return &SummaryScreen{desk: desk, summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) CapturesEsc() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll review"},
		{Key: "Enter", Description: "New session"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.summary != nil && s.offset < len(s.summary.Items)-1 {
			s.offset++
		}
	case "enter", "esc":
		if err := s.desk.NewSession(); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	// Title.
	title := "Session complete!"
	if sum.TimedOut {
		title = "Time's up!"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(title))
	b.WriteString("\n\n")

	// Stats line.
	statsLine := fmt.Sprintf("Score: %d/%d        Accuracy: %.1f%%        Duration: %s        Mode: %s",
		sum.Score, sum.Total, sum.Accuracy*100, layout.FormatClock(sum.Duration), sum.Mode)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, components.NewProgressBar("", sum.Score, sum.Total, min(width-8, 60)).View()))
	b.WriteString("\n\n")

	// Review divider.
	textWidth := min(width-8, 90)
	divider := theme.Divider.Render(strings.Repeat("─", textWidth))
	b.WriteString(layout.Centered(width, theme.Muted.Render("Review")))
	b.WriteString("\n")
	b.WriteString(layout.Centered(width, divider))
	b.WriteString("\n\n")

	used := lipgloss.Height(b.String())
	for i := s.offset; i < len(sum.Items); i++ {
		block := renderItem(i, sum.Items[i], textWidth)
		if used+lipgloss.Height(block) > height-2 && i > s.offset {
			b.WriteString(layout.Centered(width, theme.Hint.Render(fmt.Sprintf("… %d more", len(sum.Items)-i))))
			break
		}
		b.WriteString(layout.Centered(width, block))
		b.WriteString("\n\n")
		used += lipgloss.Height(block) + 1
	}

	if s.errMsg != "" {
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}

	return b.String()
}

// renderItem renders one review entry: question, both answers, explanation.
func renderItem(i int, item session.ReviewItem, width int) string {
	verdict := theme.Incorrect.Render("✗")
	if item.Correct {
		verdict = theme.Correct.Render("✓")
	}

	answerStyle := theme.Incorrect
	if item.Correct {
		answerStyle = theme.Correct
	} else if !item.Answered {
		answerStyle = theme.Muted
	}

	lines := []string{
		verdict + " " + theme.Stem.Render(fmt.Sprintf("Q%d. %s", i+1, item.Question.Text)),
		"  Your answer:    " + answerStyle.Render(item.UserAnswer),
		"  Correct answer: " + theme.Correct.Render(item.Question.Answer),
		theme.Hint.Render("  " + item.Question.Explanation),
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}
