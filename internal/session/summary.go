package session

import (
	"time"

	"github.com/abhisek/practiz/internal/questions"
)

// UnansweredPlaceholder is shown in place of a missing answer.
const UnansweredPlaceholder = "—"

// ReviewItem is one row of the end-of-session review.
type ReviewItem struct {
	Question   questions.Question
	UserAnswer string // UnansweredPlaceholder when skipped
	Answered   bool
	Correct    bool
}

// SessionSummary holds the data displayed on the summary screen.
type SessionSummary struct {
	SessionID string
	Mode      Mode
	Duration  time.Duration
	TimedOut  bool
	Score     int
	Total     int
	Accuracy  float64 // Score / Total
	Items     []ReviewItem
}

// BuildSummary scores a finished session. Unanswered questions count as
// incorrect. Calling it repeatedly on the same state yields equal results.
func BuildSummary(state *SessionState) (*SessionSummary, error) {
	if state.Phase != PhaseOver {
		if state.Phase == PhaseNotStarted {
			return nil, ErrNotStarted
		}
		return nil, ErrNotOver
	}

	sum := &SessionSummary{
		SessionID: state.ID,
		Mode:      state.Mode,
		Duration:  Elapsed(state),
		TimedOut:  state.TimedOut,
		Total:     len(state.Questions),
		Items:     make([]ReviewItem, 0, len(state.Questions)),
	}

	for _, q := range state.Questions {
		item := ReviewItem{Question: q, UserAnswer: UnansweredPlaceholder}
		if choice, ok := state.Answers[q.ID]; ok {
			item.Answered = true
			item.UserAnswer = choice
			item.Correct = q.IsCorrect(choice)
		}
		if item.Correct {
			sum.Score++
		}
		sum.Items = append(sum.Items, item)
	}

	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Score) / float64(sum.Total)
	}
	return sum, nil
}
