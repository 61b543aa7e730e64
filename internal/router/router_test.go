package router_test

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/practice/practicetest"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/screens/home"
	"github.com/abhisek/practiz/internal/screens/login"
	sessionscreen "github.com/abhisek/practiz/internal/screens/session"
	"github.com/abhisek/practiz/internal/screens/setup"
	"github.com/abhisek/practiz/internal/screens/stats"
	"github.com/abhisek/practiz/internal/session"
)

type fixture struct {
	svc  *practice.Service
	desk *practice.Desk
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc, _, _ := practicetest.NewService(t, 12)
	desk, err := svc.Login("ana")
	require.NoError(t, err)
	return &fixture{svc: svc, desk: desk}
}

func (f *fixture) login() screen.Screen {
	return login.New(f.svc, func(d *practice.Desk) screen.Screen { return f.home() })
}

func (f *fixture) home() screen.Screen {
	return home.New(f.svc, f.desk, f.login)
}

func (f *fixture) startedSession(t *testing.T) screen.Screen {
	t.Helper()
	require.NoError(t, f.desk.Configure(session.Config{Count: 5, Mode: session.ModeTest}))
	require.NoError(t, f.desk.Start())
	return sessionscreen.New(f.desk)
}

func TestPush(t *testing.T) {
	f := newFixture(t)
	r := router.New(f.home())

	r.Push(stats.New(f.desk))

	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "Progress", r.Active().Title())
}

func TestPush_RunsInit(t *testing.T) {
	f := newFixture(t)
	r := router.New(f.home())

	cmd := r.Push(f.startedSession(t))
	assert.NotNil(t, cmd, "a running session starts its clock from Init")
	assert.Equal(t, "Question 1/5", r.Active().Title())
}

func TestPop(t *testing.T) {
	f := newFixture(t)
	r := router.New(f.home())
	r.Push(setup.New(f.desk))

	r.Pop()

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "Home", r.Active().Title())
}

func TestPop_NoopAtBottom(t *testing.T) {
	f := newFixture(t)
	r := router.New(f.login())

	assert.Nil(t, r.Pop())
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "Login", r.Active().Title())
}

func TestReplace_KeepsDepth(t *testing.T) {
	f := newFixture(t)
	r := router.New(f.home())
	r.Push(setup.New(f.desk))

	cmd := r.Update(router.ReplaceScreenMsg{Screen: f.startedSession(t)})

	assert.NotNil(t, cmd)
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "Question 1/5", r.Active().Title())

	r.Pop()
	assert.Equal(t, "Home", r.Active().Title(), "setup was replaced, so popping returns home")
}

func TestResetScreenMsg(t *testing.T) {
	f := newFixture(t)
	r := router.New(f.login())
	r.Update(router.PushScreenMsg{Screen: f.home()})
	r.Update(router.PushScreenMsg{Screen: stats.New(f.desk)})
	require.Equal(t, 3, r.Depth())

	r.Update(router.ResetScreenMsg{Screen: f.login()})

	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "Login", r.Active().Title())
}

func TestUpdate_ForwardsToActive(t *testing.T) {
	f := newFixture(t)
	s := setup.New(f.desk)
	r := router.New(f.home())
	r.Push(s)

	before := s.Config().Count
	r.Update(tea.KeyPressMsg{Code: tea.KeyRight})

	assert.Equal(t, before+setup.CountStep, s.Config().Count)
	assert.Same(t, s, r.Active())
}

func TestView_RendersActive(t *testing.T) {
	f := newFixture(t)
	r := router.New(f.home())

	assert.Contains(t, r.View(100, 40), "Welcome, ana")
}
