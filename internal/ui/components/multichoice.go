package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/ui/theme"
)

// MaxChoiceLabels is the number of options that get a letter shortcut.
const MaxChoiceLabels = 8

// ChoiceMsg is emitted when the user confirms an option with Enter.
type ChoiceMsg struct {
	Choice string
}

// MultiChoice is a lettered single-choice selector. Once locked it renders
// the chosen option and, if an answer is revealed, marks it right or wrong.
type MultiChoice struct {
	Options  []string
	Selected int

	locked bool
	chosen string
	answer string // empty until revealed
}

// NewMultiChoice creates a selector over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options}
}

// Label returns the letter shown for option i.
func Label(i int) string {
	if i < 0 || i >= MaxChoiceLabels {
		return fmt.Sprint(i + 1)
	}
	return string(rune('A' + i))
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles arrows, letter shortcuts and Enter. Letters move the
// cursor; Enter confirms.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.locked || len(m.Options) == 0 {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		choice := m.Options[m.Selected]
		return m, func() tea.Msg { return ChoiceMsg{Choice: choice} }
	default:
		if len(key) == 1 {
			i := int(strings.ToLower(key)[0]) - 'a'
			if i >= 0 && i < len(m.Options) && i < MaxChoiceLabels {
				m.Selected = i
			}
		}
	}

	return m, nil
}

// Lock freezes the selector on choice. answer is revealed when non-empty.
func (m *MultiChoice) Lock(choice, answer string) {
	m.locked = true
	m.chosen = choice
	m.answer = answer
	for i, opt := range m.Options {
		if opt == choice {
			m.Selected = i
		}
	}
}

// Locked reports whether an option has been submitted.
func (m MultiChoice) Locked() bool {
	return m.locked
}

// View renders the option list.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, Label(i), opt)

		var style lipgloss.Style
		switch {
		case m.locked && m.answer != "" && opt == m.answer:
			style = theme.Correct
			line += "  ✓"
		case m.locked && opt == m.chosen && m.answer != "":
			style = theme.Incorrect
			line += "  ✗"
		case m.locked && opt == m.chosen:
			style = theme.Selected
			line += "  ●"
		case m.locked:
			style = theme.Muted
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
