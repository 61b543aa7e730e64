package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	sessionscreen "github.com/abhisek/practiz/internal/screens/session"
	"github.com/abhisek/practiz/internal/screens/setup"
	"github.com/abhisek/practiz/internal/screens/stats"
	"github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

const resumeItem = 1

// HomeScreen is the main menu for a logged-in user.
type HomeScreen struct {
	service      *practice.Service
	desk         *practice.Desk
	loginFactory func() screen.Screen
	menu         components.Menu
	errMsg       string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.StatusProvider = (*HomeScreen)(nil)

// New creates a HomeScreen for desk. loginFactory builds the screen shown
// after logging out.
func New(service *practice.Service, desk *practice.Desk, loginFactory func() screen.Screen) *HomeScreen {
	h := &HomeScreen{
		service:      service,
		desk:         desk,
		loginFactory: loginFactory,
	}

	items := []components.MenuItem{
		{Label: "New session", Hint: "pick systems, mode and filters", Action: func() tea.Cmd {
			return push(setup.New(desk))
		}},
		{Label: "Resume session", Hint: "continue where you left off", Action: func() tea.Cmd {
			return push(sessionscreen.New(desk))
		}},
		{Label: "Progress", Hint: "per-system breakdown", Action: func() tea.Cmd {
			return push(stats.New(desk))
		}},
		{Label: "Log out", Hint: "save and switch user", Action: h.logout},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.syncMenu()
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) logout() tea.Cmd {
	if err := h.service.Logout(h.desk.Username()); err != nil {
		h.errMsg = err.Error()
		return nil
	}
	next := h.loginFactory()
	return func() tea.Msg {
		return router.ResetScreenMsg{Screen: next}
	}
}

// syncMenu enables Resume only while a session is in progress.
func (h *HomeScreen) syncMenu() {
	inProgress := h.desk.Snapshot().Phase == session.PhaseInProgress
	h.menu.Items[resumeItem].Disabled = !inProgress
	if !inProgress && h.menu.Selected == resumeItem {
		h.menu.Selected = 0
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Status() string {
	return h.desk.Username()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.syncMenu()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.syncMenu()
	ov := h.desk.Overview()
	compact := layout.IsCompactHeight(height + 6)

	var sections []string
	sections = append(sections, theme.Title.Render(fmt.Sprintf("Welcome, %s", h.desk.Username())))
	if !compact {
		sections = append(sections, theme.Subtitle.Render(fmt.Sprintf(
			"%d questions across %d systems", ov.All.Total, len(ov.Systems))))
	}
	sections = append(sections, renderStatsBar(ov.All, min(width-8, 60)))
	sections = append(sections, h.menu.View())
	if h.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(h.errMsg))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderStatsBar renders the all-systems tallies in a bordered box.
func renderStatsBar(all practice.SystemStats, cw int) string {
	done := theme.SystemTag
	good := theme.Correct
	bad := theme.Incorrect
	flag := theme.Flag

	stats := fmt.Sprintf("%s  %s  %s  %s",
		done.Render(fmt.Sprintf("%d/%d SEEN", all.Attempted, all.Total)),
		good.Render(fmt.Sprintf("✓ %d", all.Correct)),
		bad.Render(fmt.Sprintf("✗ %d", all.Incorrect)),
		flag.Render(fmt.Sprintf("⚑ %d MARKED", all.Marked)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}
