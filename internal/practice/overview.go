package practice

import (
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
)

// SystemStats counts a user's history within one system.
type SystemStats struct {
	System    string
	Total     int
	Attempted int
	Correct   int
	Incorrect int
	Marked    int
}

// Unused returns the number of questions never attempted.
func (s SystemStats) Unused() int {
	return s.Total - s.Attempted
}

// Accuracy returns Correct / Attempted, or 0 before any attempt.
func (s SystemStats) Accuracy() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempted)
}

// Overview is the per-system breakdown shown on the dashboard.
type Overview struct {
	Systems []SystemStats // sorted by system name
	All     SystemStats
}

// BuildOverview tallies p against the bank. Ids in p that are no longer in
// the bank are ignored.
func BuildOverview(bank *questions.Bank, p *progress.UserProgress) *Overview {
	if p == nil {
		p = progress.New()
	}

	index := make(map[string]int)
	ov := &Overview{All: SystemStats{System: "All systems"}}
	for i, name := range bank.Systems() {
		index[name] = i
		ov.Systems = append(ov.Systems, SystemStats{System: name})
	}

	for _, q := range bank.All() {
		row := &ov.Systems[index[q.System]]
		tally(row, q.ID, p)
		tally(&ov.All, q.ID, p)
	}
	return ov
}

func tally(row *SystemStats, id questions.ID, p *progress.UserProgress) {
	row.Total++
	if p.Attempted.Has(id) {
		row.Attempted++
	}
	if p.Correct.Has(id) {
		row.Correct++
	}
	if p.Incorrect.Has(id) {
		row.Incorrect++
	}
	if p.Marked.Has(id) {
		row.Marked++
	}
}
