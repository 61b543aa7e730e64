package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/screens/home"
	"github.com/abhisek/practiz/internal/screens/login"
	"github.com/abhisek/practiz/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Service *practice.Service

	// Username logs in directly and skips the login screen.
	Username string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// screens builds the login and home factories. Each refers to the other so
// that logging out and back in cycles between them.
func screens(svc *practice.Service) (func() screen.Screen, func(*practice.Desk) screen.Screen) {
	var newLogin func() screen.Screen
	var newHome func(*practice.Desk) screen.Screen

	newLogin = func() screen.Screen {
		return login.New(svc, newHome)
	}
	newHome = func(d *practice.Desk) screen.Screen {
		return home.New(svc, d, newLogin)
	}
	return newLogin, newHome
}

// newAppModel creates an AppModel starting at the login screen, or at home
// when opts.Username is set.
func newAppModel(opts Options) (AppModel, error) {
	newLogin, newHome := screens(opts.Service)

	initial := newLogin()
	if opts.Username != "" {
		desk, err := opts.Service.Login(opts.Username)
		if err != nil {
			return AppModel{}, err
		}
		initial = newHome(desk)
	}

	return AppModel{
		router: router.New(initial),
	}, nil
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if modal, ok := m.router.Active().(screen.Modal); ok && modal.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status() + "  "
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if hp, ok := active.(screen.KeyHintProvider); ok {
		return hp.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program. Every desk still logged in when the
// program exits is saved.
func Run(opts Options) error {
	model, err := newAppModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model)
	_, runErr := p.Run()
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", runErr)
	}

	if err := opts.Service.LogoutAll(); err != nil {
		fmt.Fprintln(os.Stderr, "Error saving progress:", err)
		if runErr == nil {
			return err
		}
	}
	return runErr
}
