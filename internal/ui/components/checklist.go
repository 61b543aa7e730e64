package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/ui/theme"
)

// Checklist is a multi-select list toggled with Space.
type Checklist struct {
	Items   []string
	Checked map[int]bool
	Cursor  int
	Focused bool
}

// NewChecklist creates a checklist with the named items pre-checked.
func NewChecklist(items []string, checked []string) Checklist {
	c := Checklist{Items: items, Checked: make(map[int]bool)}
	for _, name := range checked {
		for i, item := range items {
			if item == name {
				c.Checked[i] = true
			}
		}
	}
	return c
}

// Update handles navigation and toggling while focused. It reports whether
// the cursor tried to move past either end so a form can move focus.
func (c Checklist) Update(msg tea.Msg) (Checklist, int) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !c.Focused {
		return c, 0
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor == 0 {
			return c, -1
		}
		c.Cursor--
	case "down", "j":
		if c.Cursor >= len(c.Items)-1 {
			return c, 1
		}
		c.Cursor++
	case "space", " ", "x":
		if len(c.Items) > 0 {
			c.Checked[c.Cursor] = !c.Checked[c.Cursor]
		}
	}
	return c, 0
}

// Values returns the checked items in list order.
func (c Checklist) Values() []string {
	var out []string
	for i, item := range c.Items {
		if c.Checked[i] {
			out = append(out, item)
		}
	}
	return out
}

// View renders the list, one item per line.
func (c Checklist) View() string {
	var b strings.Builder
	for i, item := range c.Items {
		box := "[ ]"
		if c.Checked[i] {
			box = "[x]"
		}
		cursor := "  "
		style := theme.Unselected
		if c.Focused && i == c.Cursor {
			cursor = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(cursor + box + " " + item))
		b.WriteString("\n")
	}
	return b.String()
}
