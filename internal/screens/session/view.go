package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	if s.snap.Question == nil {
		return renderWaiting(width, s.errMsg)
	}
	return s.renderQuestionView(width)
}

// renderQuestionView renders the current question, its options and, once
// answered, the feedback allowed by the mode.
func (s *SessionScreen) renderQuestionView(width int) string {
	snap := s.snap
	q := snap.Question
	textWidth := min(width-8, 90)

	var b strings.Builder

	// Info line.
	infoLeft := theme.SystemTag.Render("  " + q.System)
	infoRight := theme.Muted.Render(fmt.Sprintf("%s mode  answered %d/%d", snap.Mode, snap.Answered, snap.Total))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(theme.Divider.Render(strings.Repeat("─", max(0, width-4))))
	b.WriteString("\n\n")

	question := theme.Stem.Width(textWidth).Render(q.Text)
	b.WriteString(indent(question))
	b.WriteString("\n\n")
	b.WriteString(indent(s.choices.View()))
	b.WriteString("\n")

	if snap.HasAnswer {
		b.WriteString(s.renderFeedback(textWidth))
		b.WriteString("\n")
	}

	b.WriteString(indent(renderTags(snap.Marked, snap.Confidence)))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(indent(theme.ErrorText.Render(s.errMsg)))
	}

	return b.String()
}

// renderFeedback shows the verdict and explanation in reading mode, and a
// neutral acknowledgement in test mode.
func (s *SessionScreen) renderFeedback(textWidth int) string {
	snap := s.snap
	var b strings.Builder

	if !snap.ShowExplanation {
		b.WriteString(indent(theme.Hint.Render("Answer recorded. Explanations are shown at the end.")))
		b.WriteString("\n")
		return b.String()
	}

	if snap.Correct {
		b.WriteString(indent(theme.Correct.Render("Correct!")))
	} else {
		b.WriteString(indent(theme.Incorrect.Render("Incorrect")))
		b.WriteString("\n")
		b.WriteString(indent(theme.Muted.Render("Correct answer: " + snap.Question.Answer)))
	}
	b.WriteString("\n\n")

	exp := theme.Explanation.Width(textWidth).Render(snap.Question.Explanation)
	b.WriteString(indent(exp))
	b.WriteString("\n")
	return b.String()
}

// renderTags shows the review mark and the confidence picker.
func renderTags(marked bool, current progress.Confidence) string {
	mark := theme.Muted.Render("☐ marked for review")
	if marked {
		mark = theme.Flag.Render("⚑ marked for review")
	}

	levels := make([]string, len(progress.ConfidenceLevels))
	for i, c := range progress.ConfidenceLevels {
		label := fmt.Sprintf("%d %s", i+1, c)
		if c == current {
			levels[i] = theme.Selected.Render("[" + label + "]")
		} else {
			levels[i] = theme.Muted.Render(" " + label + " ")
		}
	}

	return mark + "    " + theme.Muted.Render("confidence:") + " " + strings.Join(levels, " ")
}

// renderQuitConfirm renders the leave confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this session?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answers so far are saved to your progress."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderWaiting is shown between the last question and the summary.
func renderWaiting(width int, errMsg string) string {
	text := "\n\n\n  Scoring your session..."
	color := theme.TextDim
	if errMsg != "" {
		text = fmt.Sprintf("\n\n\n  Error: %s", errMsg)
		color = theme.Error
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(color).
		Render(text)
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
