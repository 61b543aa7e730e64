package progress

import (
	"fmt"
	"time"

	"github.com/abhisek/practiz/internal/questions"
)

// Confidence is the learner's self-reported certainty for a question.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ConfidenceLevels lists the accepted levels in display order.
var ConfidenceLevels = []Confidence{ConfidenceLow, ConfidenceMedium, ConfidenceHigh}

// ParseConfidence validates a confidence level string.
func ParseConfidence(s string) (Confidence, error) {
	for _, c := range ConfidenceLevels {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown confidence level %q", s)
}

// QuestionStats holds lifetime attempt counters for one question.
type QuestionStats struct {
	Attempts  int    `json:"attempts"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	LastSeen  string `json:"last_seen,omitempty"` // RFC 3339
}

// UserProgress is the durable per-user record of attempts and tags.
// Correct and Incorrect are always disjoint subsets of Attempted.
type UserProgress struct {
	Attempted  IDSet                           `json:"attempted"`
	Correct    IDSet                           `json:"correct"`
	Incorrect  IDSet                           `json:"incorrect"`
	Marked     IDSet                           `json:"marked"`
	Confidence map[questions.ID]Confidence     `json:"confidence"`
	Stats      map[questions.ID]*QuestionStats `json:"stats"`
}

// New returns an empty progress record.
func New() *UserProgress {
	p := &UserProgress{}
	p.ensure()
	return p
}

// ensure fills in nil collections after decoding partial files.
func (p *UserProgress) ensure() {
	if p.Attempted == nil {
		p.Attempted = IDSet{}
	}
	if p.Correct == nil {
		p.Correct = IDSet{}
	}
	if p.Incorrect == nil {
		p.Incorrect = IDSet{}
	}
	if p.Marked == nil {
		p.Marked = IDSet{}
	}
	if p.Confidence == nil {
		p.Confidence = make(map[questions.ID]Confidence)
	}
	if p.Stats == nil {
		p.Stats = make(map[questions.ID]*QuestionStats)
	}
}

// RecordAttempt registers an answer. The id lands in exactly one of
// Correct/Incorrect, reflecting the most recent outcome.
func (p *UserProgress) RecordAttempt(id questions.ID, correct bool, at time.Time) {
	p.ensure()
	p.Attempted.Add(id)
	if correct {
		p.Correct.Add(id)
		p.Incorrect.Remove(id)
	} else {
		p.Incorrect.Add(id)
		p.Correct.Remove(id)
	}

	st := p.Stats[id]
	if st == nil {
		st = &QuestionStats{}
		p.Stats[id] = st
	}
	st.Attempts++
	if correct {
		st.Correct++
	} else {
		st.Incorrect++
	}
	st.LastSeen = at.Format(time.RFC3339)
}

// SetConfidence tags a question with a confidence level.
func (p *UserProgress) SetConfidence(id questions.ID, c Confidence) {
	p.ensure()
	p.Confidence[id] = c
}

// ToggleMark flips the review mark on a question and returns the new state.
func (p *UserProgress) ToggleMark(id questions.ID) bool {
	p.ensure()
	if p.Marked.Has(id) {
		p.Marked.Remove(id)
		return false
	}
	p.Marked.Add(id)
	return true
}

// IsMarked reports whether the question is marked for review.
func (p *UserProgress) IsMarked(id questions.ID) bool {
	return p.Marked.Has(id)
}
