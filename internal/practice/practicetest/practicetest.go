// Package practicetest provides an in-memory practice.Service for tests of
// the packages built on top of it.
package practicetest

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
)

// Answer is the correct option of every question built by Bank.
const Answer = "beta"

// Systems are assigned round-robin by Bank.
var Systems = []string{"Cardiovascular", "Renal", "Neurology"}

// MemRepo implements progress.Repo in memory.
type MemRepo struct {
	mu    sync.Mutex
	data  map[string]*progress.UserProgress
	saves map[string]int
}

// NewMemRepo returns an empty MemRepo.
func NewMemRepo() *MemRepo {
	return &MemRepo{
		data:  make(map[string]*progress.UserProgress),
		saves: make(map[string]int),
	}
}

func (m *MemRepo) Load(username string) (*progress.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.data[username]; ok {
		return p, nil
	}
	return progress.New(), nil
}

func (m *MemRepo) Save(username string, p *progress.UserProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[username] = p
	m.saves[username]++
	return nil
}

// Saves returns how many times username was saved.
func (m *MemRepo) Saves(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[username]
}

// Clock is a goroutine-safe manual clock.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Bank builds n questions whose correct option is always Answer.
func Bank(t testing.TB, n int) *questions.Bank {
	t.Helper()
	qs := make([]questions.Question, n)
	for i := range qs {
		qs[i] = questions.Question{
			ID:          questions.ID(fmt.Sprint(i + 1)),
			System:      Systems[i%len(Systems)],
			Text:        fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"alpha", Answer, "gamma", "delta"},
			Answer:      Answer,
			Explanation: fmt.Sprintf("Explanation %d.", i+1),
		}
	}
	bank, err := questions.New(qs, "practicetest")
	if err != nil {
		t.Fatalf("build bank: %v", err)
	}
	return bank
}

// NewService returns a Service over Bank(t, n) with a deterministic clock
// and random source.
func NewService(t testing.TB, n int) (*practice.Service, *MemRepo, *Clock) {
	t.Helper()
	repo := NewMemRepo()
	clock := &Clock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	var seed uint64
	svc := practice.NewService(Bank(t, n), repo, practice.Options{
		Clock: clock.Now,
		NewRand: func() *rand.Rand {
			seed++
			return rand.New(rand.NewPCG(seed, 7))
		},
	})
	return svc, repo, clock
}
