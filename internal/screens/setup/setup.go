package setup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	sessionscreen "github.com/abhisek/practiz/internal/screens/session"
	"github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// CountStep is how much Left/Right change the question count.
const CountStep = 5

type field int

const (
	fieldCount field = iota
	fieldMode
	fieldSystems
	fieldFilters
	fieldStart
	fieldLast = fieldStart
)

// SetupScreen edits the session setup and starts the session.
type SetupScreen struct {
	desk    *practice.Desk
	count   int
	mode    session.Mode
	systems components.Checklist
	filters components.Checklist
	focus   field
	warning string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.StatusProvider = (*SetupScreen)(nil)

// New creates a SetupScreen prefilled from the desk's last setup.
func New(desk *practice.Desk) *SetupScreen {
	cfg := desk.Setup()

	filterNames := make([]string, len(session.Filters))
	for i, f := range session.Filters {
		filterNames[i] = string(f)
	}
	chosen := make([]string, len(cfg.Filters))
	for i, f := range cfg.Filters {
		chosen[i] = string(f)
	}

	return &SetupScreen{
		desk:    desk,
		count:   clampCount(cfg.Count),
		mode:    cfg.Mode,
		systems: components.NewChecklist(desk.Systems(), cfg.Systems),
		filters: components.NewChecklist(filterNames, chosen),
	}
}

func clampCount(n int) int {
	return max(session.MinCount, min(session.MaxCount, n))
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Session Setup"
}

func (s *SetupScreen) Status() string {
	return s.desk.Username()
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓/Tab", Description: "Move"},
		{Key: "←→", Description: "Change"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Config returns the setup as currently edited.
func (s *SetupScreen) Config() session.Config {
	cfg := session.Config{
		Count:   s.count,
		Mode:    s.mode,
		Systems: s.systems.Values(),
	}
	for _, f := range s.filters.Values() {
		cfg.Filters = append(cfg.Filters, session.Filter(f))
	}
	return cfg
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "enter":
		return s, s.start()
	case "tab":
		s.move(1)
		return s, nil
	case "shift+tab":
		s.move(-1)
		return s, nil
	}

	switch s.focus {
	case fieldSystems:
		var edge int
		s.systems, edge = s.systems.Update(msg)
		s.move(edge)
		return s, nil
	case fieldFilters:
		var edge int
		s.filters, edge = s.filters.Update(msg)
		s.move(edge)
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.move(-1)
	case "down", "j":
		s.move(1)
	case "left", "h":
		s.adjust(-1)
	case "right", "l":
		s.adjust(1)
	}
	return s, nil
}

func (s *SetupScreen) move(delta int) {
	if delta == 0 {
		return
	}
	next := s.focus + field(delta)
	if next < fieldCount || next > fieldLast {
		return
	}
	// Skip empty checklists.
	if next == fieldSystems && len(s.systems.Items) == 0 {
		next += field(delta)
	}
	s.focus = next
	s.systems.Focused = s.focus == fieldSystems
	s.filters.Focused = s.focus == fieldFilters

	// Entering a list from below lands on its last item.
	if delta > 0 {
		s.systems.Cursor, s.filters.Cursor = 0, 0
	} else {
		s.systems.Cursor = max(0, len(s.systems.Items)-1)
		s.filters.Cursor = max(0, len(s.filters.Items)-1)
	}
}

func (s *SetupScreen) adjust(delta int) {
	switch s.focus {
	case fieldCount:
		s.count = clampCount(s.count + delta*CountStep)
	case fieldMode:
		if s.mode == session.ModeReading {
			s.mode = session.ModeTest
		} else {
			s.mode = session.ModeReading
		}
	}
}

func (s *SetupScreen) start() tea.Cmd {
	s.warning = ""
	if err := s.desk.Configure(s.Config()); err != nil {
		s.warning = err.Error()
		return nil
	}
	if err := s.desk.Start(); err != nil {
		var insufficient *session.ErrInsufficientPool
		switch {
		case errors.As(err, &insufficient):
			s.warning = fmt.Sprintf("Not enough questions for these filters: %d match, %d requested.",
				insufficient.Available, insufficient.Requested)
		case errors.Is(err, session.ErrAlreadyStarted):
			s.warning = "A session is already open. Resume it from the menu, or leave it with Esc first."
		default:
			s.warning = err.Error()
		}
		return nil
	}

	next := sessionscreen.New(s.desk)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	label := func(f field, text string) string {
		if s.focus == f {
			return theme.Selected.Render("▸ " + text)
		}
		return theme.Body.Render("  " + text)
	}

	b.WriteString(label(fieldCount, fmt.Sprintf("Questions   ◂ %d ▸", s.count)))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("   %d-%d", session.MinCount, session.MaxCount)))
	b.WriteString("\n\n")

	modeText := fmt.Sprintf("Mode        ◂ %s ▸", s.mode)
	b.WriteString(label(fieldMode, modeText))
	if s.mode == session.ModeTest {
		limit := time.Duration(s.count) * session.TimePerQuestion
		b.WriteString(theme.Hint.Render("   timed, " + layout.FormatClock(limit) + ", explanations at the end"))
	} else {
		b.WriteString(theme.Hint.Render("   untimed, explanation after each answer"))
	}
	b.WriteString("\n\n")

	b.WriteString(label(fieldSystems, "Systems"))
	b.WriteString(theme.Hint.Render("   none checked = all"))
	b.WriteString("\n")
	b.WriteString(indent(s.systems.View()))
	b.WriteString("\n")

	b.WriteString(label(fieldFilters, "Filters"))
	b.WriteString(theme.Hint.Render("   a question qualifies if any checked filter matches"))
	b.WriteString("\n")
	b.WriteString(indent(s.filters.View()))
	b.WriteString("\n")

	if s.focus == fieldStart {
		b.WriteString(theme.ButtonActive.Render("▸ Start session"))
	} else {
		b.WriteString(theme.ButtonInactive.Render("Start session"))
	}

	if s.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render("⚠ " + s.warning))
	}

	card := theme.Panel.Padding(1, 2).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
