package session

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
)

// StartInput carries everything Start needs.
type StartInput struct {
	// Bank is the full question list to select from.
	Bank []questions.Question

	// Progress drives the unused/incorrect/marked filters (nil = empty history).
	Progress *progress.UserProgress

	// Config is the requested session shape.
	Config Config

	// Rand is the randomness source (nil = the global generator).
	Rand *rand.Rand
}

// Start selects the session's questions and moves state from
// PhaseNotStarted to PhaseInProgress. An open or finished session must be
// Reset first. On any error state is left exactly as it was.
func Start(state *SessionState, in StartInput) error {
	if state.Phase != PhaseNotStarted {
		return ErrAlreadyStarted
	}
	cfg := in.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	pool := BuildPool(in.Bank, in.Progress, cfg)
	if len(pool) < cfg.Count {
		return &ErrInsufficientPool{Available: len(pool), Requested: cfg.Count}
	}

	state.ID = uuid.New().String()
	state.Phase = PhaseInProgress
	state.Mode = cfg.Mode
	state.Questions = sample(in.Rand, pool, cfg.Count)
	state.CurrentIndex = 0
	state.Answers = make(map[questions.ID]string, cfg.Count)
	state.ShowExplanation = false
	state.StartTime = state.clock()
	state.EndTime = time.Time{}
	state.TimeLimit = cfg.TimeLimit()
	state.TimedOut = false
	return nil
}

// Reset discards the current run and returns state to PhaseNotStarted.
func Reset(state *SessionState) {
	now := state.now
	*state = *NewSessionState(now)
}

// Elapsed returns the wall-clock time since start, frozen once the session is over.
func Elapsed(state *SessionState) time.Duration {
	switch state.Phase {
	case PhaseNotStarted:
		return 0
	case PhaseOver:
		return state.EndTime.Sub(state.StartTime)
	}
	d := state.clock().Sub(state.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Remaining returns the time left in a timed session, never negative.
// The second result is false for untimed sessions.
func Remaining(state *SessionState) (time.Duration, bool) {
	if !state.Timed() {
		return 0, false
	}
	left := state.TimeLimit - Elapsed(state)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Tick ends a timed session whose limit has passed, even mid-question.
// Timeouts are only noticed when something calls Tick. Returns true if the
// session is over.
func Tick(state *SessionState) bool {
	if state.Phase != PhaseInProgress {
		return state.Phase == PhaseOver
	}
	if state.Timed() && Elapsed(state) >= state.TimeLimit {
		state.TimedOut = true
		finish(state)
	}
	return state.Over()
}

// CurrentQuestion returns the question at CurrentIndex while in progress.
func CurrentQuestion(state *SessionState) (*questions.Question, bool) {
	if state.Phase != PhaseInProgress || state.CurrentIndex >= len(state.Questions) {
		return nil, false
	}
	return &state.Questions[state.CurrentIndex], true
}

// AnswerResult reports the outcome of a submission.
type AnswerResult struct {
	QuestionID questions.ID
	Choice     string
	Correct    bool
	// Revealed is true when the explanation may be shown now (reading mode).
	Revealed bool
}

// SubmitAnswer records choice for the current question and updates p.
// id must name the current question so stale submissions cannot land on
// the next one. Each question accepts one answer.
func SubmitAnswer(state *SessionState, p *progress.UserProgress, id questions.ID, choice string) (*AnswerResult, error) {
	if err := requireInProgress(state); err != nil {
		return nil, err
	}
	q, ok := CurrentQuestion(state)
	if !ok {
		return nil, ErrSessionOver
	}
	if q.ID != id {
		return nil, ErrNotCurrent
	}
	if _, done := state.Answers[id]; done {
		return nil, ErrAlreadyAnswered
	}

	correct := q.IsCorrect(choice)
	state.Answers[id] = choice
	if p != nil {
		p.RecordAttempt(id, correct, state.clock())
	}
	state.ShowExplanation = state.Mode == ModeReading

	return &AnswerResult{
		QuestionID: id,
		Choice:     choice,
		Correct:    correct,
		Revealed:   state.ShowExplanation,
	}, nil
}

// Advance moves to the next question, whether or not the current one was
// answered. Returns true once the session is over.
func Advance(state *SessionState) (bool, error) {
	if err := requireInProgress(state); err != nil {
		return state.Over(), err
	}
	state.CurrentIndex++
	state.ShowExplanation = false
	if state.CurrentIndex >= len(state.Questions) {
		state.CurrentIndex = len(state.Questions)
		finish(state)
	}
	return state.Over(), nil
}

// requireInProgress checks the phase after giving the timer a chance to fire.
func requireInProgress(state *SessionState) error {
	switch state.Phase {
	case PhaseNotStarted:
		return ErrNotStarted
	case PhaseOver:
		return ErrSessionOver
	}
	if Tick(state) {
		return ErrSessionOver
	}
	return nil
}

func finish(state *SessionState) {
	state.Phase = PhaseOver
	state.ShowExplanation = false
	state.EndTime = state.clock()
	if state.EndTime.Before(state.StartTime) {
		state.EndTime = state.StartTime
	}
}
