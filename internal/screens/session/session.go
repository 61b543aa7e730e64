package session

import (
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
	"github.com/abhisek/practiz/internal/router"
	"github.com/abhisek/practiz/internal/screen"
	"github.com/abhisek/practiz/internal/screens/summary"
	sess "github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/ui/components"
	"github.com/abhisek/practiz/internal/ui/layout"
	"github.com/abhisek/practiz/internal/ui/theme"
)

// SessionScreen implements screen.Screen for the active session.
type SessionScreen struct {
	desk        *practice.Desk
	snap        practice.Snapshot
	questionID  questions.ID
	choices     components.MultiChoice
	confirmQuit bool
	ended       bool
	errMsg      string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)
var _ screen.Modal = (*SessionScreen)(nil)

// New creates a SessionScreen over a desk whose session has been started.
func New(desk *practice.Desk) *SessionScreen {
	s := &SessionScreen{desk: desk}
	s.refresh()
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	if s.snap.Phase == sess.PhaseOver {
		return endCmd()
	}
	return tickCmd()
}

func (s *SessionScreen) Title() string {
	if s.snap.Total == 0 {
		return "Session"
	}
	return fmt.Sprintf("Question %d/%d", min(s.snap.Index+1, s.snap.Total), s.snap.Total)
}

// Status shows the user and the clock: a countdown in test mode, elapsed
// time otherwise.
func (s *SessionScreen) Status() string {
	if s.snap.Timed {
		clock := theme.Timer(int(s.snap.Remaining.Seconds()), true).
			Render("⏱ " + layout.FormatClock(s.snap.Remaining) + " left")
		return s.snap.Username + "  " + clock
	}
	return s.snap.Username + "  " + theme.Timer(0, false).Render("⏱ "+layout.FormatClock(s.snap.Elapsed))
}

func (s *SessionScreen) CapturesEsc() bool {
	return true
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.snap.HasAnswer {
		return []layout.KeyHint{
			{Key: "Enter/N", Description: "Next"},
			{Key: "1-3", Description: "Confidence"},
			{Key: "M", Description: "Mark"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	return []layout.KeyHint{
		{Key: "A-" + components.Label(max(0, len(s.choices.Options)-1)), Description: "Choose"},
		{Key: "Enter", Description: "Submit"},
		{Key: "N", Description: "Skip"},
		{Key: "1-3", Description: "Confidence"},
		{Key: "M", Description: "Mark"},
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTimerTick()

	case components.ChoiceMsg:
		return s.submit(msg.Choice)

	case sessionEndMsg:
		return s.handleSessionEnd()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// refresh reloads the snapshot and resets the selector when the question changes.
func (s *SessionScreen) refresh() {
	s.snap = s.desk.Snapshot()
	if s.snap.SaveErr != nil {
		s.errMsg = s.snap.SaveErr.Error()
	}
	q := s.snap.Question
	if q == nil {
		return
	}
	if q.ID != s.questionID {
		s.questionID = q.ID
		s.choices = components.NewMultiChoice(q.Options)
	}
	if s.snap.HasAnswer && !s.choices.Locked() {
		s.choices.Lock(s.snap.Choice, s.revealedAnswer())
	}
}

// revealedAnswer is the correct option when it may be shown, else "".
func (s *SessionScreen) revealedAnswer() string {
	if s.snap.ShowExplanation && s.snap.Question != nil {
		return s.snap.Question.Answer
	}
	return ""
}

func (s *SessionScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if s.ended {
		return s, nil
	}
	over, err := s.desk.Tick()
	if err != nil {
		s.errMsg = err.Error()
	}
	s.refresh()
	if over {
		return s, endCmd()
	}
	return s, tickCmd()
}

func (s *SessionScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.leave()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "m", "M":
		if _, err := s.desk.ToggleMark(); err != nil {
			return s, s.fail(err)
		}
		s.refresh()
		return s, nil
	case "1", "2", "3":
		level := progress.ConfidenceLevels[int(key[0]-'1')]
		if err := s.desk.SetConfidence(level); err != nil {
			return s, s.fail(err)
		}
		s.refresh()
		return s, nil
	case "n", "N":
		return s.next()
	case "enter":
		if s.snap.HasAnswer {
			return s.next()
		}
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

func (s *SessionScreen) submit(choice string) (screen.Screen, tea.Cmd) {
	if _, err := s.desk.Submit(s.questionID, choice); err != nil {
		return s, s.fail(err)
	}
	s.errMsg = ""
	s.refresh()
	return s, nil
}

func (s *SessionScreen) next() (screen.Screen, tea.Cmd) {
	over, err := s.desk.Next()
	if err != nil && !errors.Is(err, sess.ErrSessionOver) {
		s.errMsg = err.Error()
	}
	s.refresh()
	if over || s.snap.Phase == sess.PhaseOver {
		return s, endCmd()
	}
	return s, nil
}

// fail records err; a session that ended underneath us moves on to the summary.
func (s *SessionScreen) fail(err error) tea.Cmd {
	s.refresh()
	if errors.Is(err, sess.ErrSessionOver) || s.snap.Phase == sess.PhaseOver {
		return endCmd()
	}
	s.errMsg = err.Error()
	return nil
}

// leave abandons the session and returns to the previous screen.
func (s *SessionScreen) leave() tea.Cmd {
	s.ended = true
	if err := s.desk.NewSession(); err != nil {
		s.errMsg = err.Error()
		s.ended = false
		return nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *SessionScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	if s.ended {
		return s, nil
	}
	sum, err := s.desk.Summary()
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.ended = true
	next := summary.New(s.desk, sum)
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func endCmd() tea.Cmd {
	return func() tea.Msg { return sessionEndMsg{} }
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
