package layout

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/ui/theme"
)

// Terminal size the question view is laid out for. Below CompactHeight
// screens drop decorative sections.
const (
	MinWidth      = 80
	MinHeight     = 24
	CompactHeight = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactHeight reports whether height leaves room only for essentials.
func IsCompactHeight(height int) bool {
	return height < CompactHeight
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small: %d x %d\n\nQuestions need at least %d x %d.",
		width, height, MinWidth, MinHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Body.Render(msg))
}

// FormatClock renders d as m:ss, rounding down to whole seconds.
// Test-mode limits can exceed an hour; minutes keep counting past 59.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Centered places s in the middle of a line of the given width.
func Centered(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

// RenderHeader renders the top bar: app name, screen title in the middle,
// status (user and session clock) on the right.
func RenderHeader(title, status string, width int) string {
	left := theme.Selected.Render("  Practiz")
	center := theme.Body.Render(title)
	right := theme.Muted.Render(status)

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	return bar(width).Render(left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter renders the key hints of the active screen.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, theme.Body.Bold(true).Render(h.Key)+" "+theme.Muted.Render(h.Description))
	}
	return bar(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving content whatever
// height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

func bar(width int) lipgloss.Style {
	return theme.Card.
		Padding(0).
		Width(width)
}
