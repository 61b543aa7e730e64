package session

import (
	"time"

	"github.com/abhisek/practiz/internal/questions"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// SessionPhase represents the lifecycle position of a session.
type SessionPhase int

const (
	PhaseNotStarted SessionPhase = iota // No questions selected yet
	PhaseInProgress                     // Serving questions
	PhaseOver                           // Ran out of questions or time
)

func (p SessionPhase) String() string {
	switch p {
	case PhaseInProgress:
		return "in-progress"
	case PhaseOver:
		return "over"
	default:
		return "not-started"
	}
}

// SessionState tracks one practice run. The zero value is a NotStarted
// session on the wall clock; NewSessionState lets tests inject a clock.
type SessionState struct {
	// ID is the UUID assigned at start.
	ID string

	// Phase is the current lifecycle phase.
	Phase SessionPhase

	// Mode is the mode the session was started with.
	Mode Mode

	// Questions are per-session copies with shuffled options.
	Questions []questions.Question

	// CurrentIndex is in [0, len(Questions)]; it equals len(Questions)
	// only once every question has been passed.
	CurrentIndex int

	// Answers maps question id to the submitted choice.
	Answers map[questions.ID]string

	// ShowExplanation is true while the current question's explanation is revealed.
	ShowExplanation bool

	// StartTime is when the session began.
	StartTime time.Time

	// EndTime is set when the session becomes Over; elapsed time freezes there.
	EndTime time.Time

	// TimeLimit is the test-mode limit, 0 when untimed.
	TimeLimit time.Duration

	// TimedOut is true if the session ended because the limit passed.
	TimedOut bool

	now Clock
}

// NewSessionState returns a session in PhaseNotStarted. A nil clock uses time.Now.
func NewSessionState(now Clock) *SessionState {
	if now == nil {
		now = time.Now
	}
	return &SessionState{
		Phase:   PhaseNotStarted,
		Mode:    ModeReading,
		Answers: make(map[questions.ID]string),
		now:     now,
	}
}

func (s *SessionState) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Started reports whether the session has left PhaseNotStarted.
func (s *SessionState) Started() bool {
	return s.Phase != PhaseNotStarted
}

// Over reports whether the session has ended.
func (s *SessionState) Over() bool {
	return s.Phase == PhaseOver
}

// Timed reports whether a time limit applies.
func (s *SessionState) Timed() bool {
	return s.Mode == ModeTest && s.TimeLimit > 0
}
