package session

import (
	"math/rand/v2"

	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
)

// BuildPool narrows all to the candidate questions for cfg. Systems are
// applied first; then a question passes if any selected filter admits it.
func BuildPool(all []questions.Question, p *progress.UserProgress, cfg Config) []questions.Question {
	systems := make(map[string]bool, len(cfg.Systems))
	for _, s := range cfg.Systems {
		systems[s] = true
	}

	var pool []questions.Question
	for _, q := range all {
		if len(systems) > 0 && !systems[q.System] {
			continue
		}
		if !admit(q.ID, p, cfg.Filters) {
			continue
		}
		pool = append(pool, q)
	}
	return pool
}

func admit(id questions.ID, p *progress.UserProgress, filters []Filter) bool {
	if len(filters) == 0 {
		return true
	}
	if p == nil {
		p = progress.New()
	}
	for _, f := range filters {
		switch f {
		case FilterUnused:
			if !p.Attempted.Has(id) {
				return true
			}
		case FilterIncorrect:
			if p.Incorrect.Has(id) {
				return true
			}
		case FilterMarked:
			if p.Marked.Has(id) {
				return true
			}
		}
	}
	return false
}

// sample draws n questions uniformly without replacement and returns
// copies whose options are independently shuffled.
func sample(rng *rand.Rand, pool []questions.Question, n int) []questions.Question {
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates: the first n slots end up a uniform sample.
	for i := 0; i < n; i++ {
		j := i + intN(rng, len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make([]questions.Question, n)
	for i := 0; i < n; i++ {
		q := pool[idx[i]].Clone()
		shuffle(rng, len(q.Options), func(a, b int) {
			q.Options[a], q.Options[b] = q.Options[b], q.Options[a]
		})
		out[i] = q
	}
	return out
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

func shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	if rng == nil {
		rand.Shuffle(n, swap)
		return
	}
	rng.Shuffle(n, swap)
}
