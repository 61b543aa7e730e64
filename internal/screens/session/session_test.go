package session

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
	"github.com/abhisek/practiz/internal/router"
	sess "github.com/abhisek/practiz/internal/session"
)

// memRepo implements progress.Repo in memory.
type memRepo struct {
	data map[string]*progress.UserProgress
}

func (m *memRepo) Load(username string) (*progress.UserProgress, error) {
	if p, ok := m.data[username]; ok {
		return p, nil
	}
	return progress.New(), nil
}

func (m *memRepo) Save(username string, p *progress.UserProgress) error {
	m.data[username] = p
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestDesk(t *testing.T, mode sess.Mode, n int) (*practice.Desk, *fakeClock, *memRepo) {
	t.Helper()

	qs := make([]questions.Question, n)
	for i := range qs {
		qs[i] = questions.Question{
			ID:          questions.ID(fmt.Sprint(i + 1)),
			System:      "Renal",
			Text:        fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"alpha", "beta", "gamma"},
			Answer:      "beta",
			Explanation: "Beta is right.",
		}
	}
	bank, err := questions.New(qs, "test")
	if err != nil {
		t.Fatalf("questions.New: %v", err)
	}

	clock := &fakeClock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	repo := &memRepo{data: make(map[string]*progress.UserProgress)}
	svc := practice.NewService(bank, repo, practice.Options{
		Clock:   clock.Now,
		NewRand: func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) },
	})

	desk, err := svc.Login("ana")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := desk.Configure(sess.Config{Count: n, Mode: mode}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := desk.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return desk, clock, repo
}

// answer submits the correct option through the choice selector.
func answer(t *testing.T, s *SessionScreen) {
	t.Helper()
	choice := s.snap.Question.Answer
	for i, opt := range s.choices.Options {
		if opt == choice {
			s.Update(tea.KeyPressMsg{Code: rune('a' + i), Text: string(rune('a' + i))})
			break
		}
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected ChoiceMsg command on Enter")
	}
	s.Update(cmd())
}

func press(s *SessionScreen, key string) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: rune(key[0]), Text: key})
	return cmd
}

func TestSessionScreen_Title(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeReading, 3)
	s := New(desk)
	if s.Title() != "Question 1/3" {
		t.Errorf("Title = %q, want %q", s.Title(), "Question 1/3")
	}
}

func TestSessionScreen_ReadingModeShowsExplanation(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeReading, 3)
	s := New(desk)

	answer(t, s)

	if !s.snap.HasAnswer || !s.snap.Correct {
		t.Fatalf("expected a correct recorded answer, got %+v", s.snap)
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Correct!") {
		t.Error("reading mode should show the verdict")
	}
	if !strings.Contains(view, "Beta is right.") {
		t.Error("reading mode should show the explanation")
	}
}

func TestSessionScreen_TestModeHidesExplanation(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeTest, 3)
	s := New(desk)

	answer(t, s)

	view := s.View(100, 40)
	if strings.Contains(view, "Beta is right.") {
		t.Error("test mode must not reveal the explanation")
	}
	if !strings.Contains(view, "Answer recorded.") {
		t.Error("test mode should acknowledge the answer")
	}
	if !strings.Contains(s.Status(), "left") {
		t.Errorf("test mode status should show a countdown, got %q", s.Status())
	}
}

func TestSessionScreen_SkipAndFinish(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeReading, 2)
	s := New(desk)

	if cmd := press(s, "n"); cmd != nil {
		t.Fatal("skipping the first question should not end the session")
	}
	if s.Title() != "Question 2/2" {
		t.Errorf("Title = %q, want Question 2/2", s.Title())
	}

	answer(t, s)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("advancing past the last question should end the session")
	}
	if _, ok := cmd().(sessionEndMsg); !ok {
		t.Fatal("expected sessionEndMsg")
	}

	_, cmd = s.Update(sessionEndMsg{})
	if cmd == nil {
		t.Fatal("expected a replace command")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg to the summary")
	}
}

func TestSessionScreen_MarkAndConfidence(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeReading, 3)
	s := New(desk)

	press(s, "m")
	if !s.snap.Marked {
		t.Error("m should mark the question")
	}
	press(s, "3")
	if s.snap.Confidence != progress.ConfidenceHigh {
		t.Errorf("Confidence = %q, want high", s.snap.Confidence)
	}
	press(s, "m")
	if s.snap.Marked {
		t.Error("second m should unmark the question")
	}
}

func TestSessionScreen_TimeoutEndsSession(t *testing.T) {
	desk, clock, repo := newTestDesk(t, sess.ModeTest, 2)
	s := New(desk)

	clock.t = clock.t.Add(2*sess.TimePerQuestion + time.Second)
	_, cmd := s.Update(timerTickMsg(clock.t))
	if cmd == nil {
		t.Fatal("expected a command after the limit passed")
	}
	if _, ok := cmd().(sessionEndMsg); !ok {
		t.Fatal("expected sessionEndMsg after timeout")
	}
	if _, ok := repo.data["ana"]; !ok {
		t.Error("progress should be saved when the session times out")
	}
}

func TestSessionScreen_TickKeepsTicking(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeTest, 2)
	s := New(desk)
	_, cmd := s.Update(timerTickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
}

func TestSessionScreen_EscConfirm(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeReading, 3)
	s := New(desk)
	if !s.CapturesEsc() {
		t.Fatal("session screen should handle Esc itself")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.confirmQuit {
		t.Fatal("Esc should ask for confirmation")
	}
	press(s, "n")
	if s.confirmQuit {
		t.Fatal("n should cancel the confirmation")
	}
	if s.Title() != "Question 1/3" {
		t.Error("cancelling must not skip the question")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	cmd := press(s, "y")
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
	if desk.Snapshot().Phase != sess.PhaseNotStarted {
		t.Error("leaving should reset the desk")
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	desk, _, _ := newTestDesk(t, sess.ModeReading, 3)
	s := New(desk)
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
	answer(t, s)
	if s.KeyHints()[0].Description != "Next" {
		t.Errorf("answered hints should lead with Next, got %q", s.KeyHints()[0].Description)
	}
}
