package login

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// LoginScreen asks for a username and opens that user's desk.
type LoginScreen struct {
	service     *practice.Service
	homeFactory func(*practice.Desk) screen.Screen
	input       components.TextInput
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen that replaces itself with the screen produced
// by homeFactory once the user logs in.
func New(service *practice.Service, homeFactory func(*practice.Desk) screen.Screen) *LoginScreen {
	return &LoginScreen{
		service:     service,
		homeFactory: homeFactory,
		input:       components.NewTextInput("username", 40),
	}
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.input.Init()
}

func (l *LoginScreen) Title() string {
	return "Login"
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Log in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
		return l, l.login()
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l *LoginScreen) login() tea.Cmd {
	name := l.input.Value()
	if name == "" {
		return nil
	}

	desk, err := l.service.Login(name)
	if err != nil {
		if errors.Is(err, progress.ErrInvalidUsername) {
			l.input.SetError("names cannot contain slashes or \"..\"")
		} else {
			l.input.SetError(err.Error())
		}
		return nil
	}

	next := l.homeFactory(desk)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (l *LoginScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, "")
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("Question bank practice"))
	sections = append(sections, theme.Hint.Render(
		"No password: your name just picks which progress file to use."))
	sections = append(sections, "")

	card := theme.Card.
		Width(min(width-8, 50)).
		Render("Username\n\n" + l.input.View())
	sections = append(sections, card)

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
