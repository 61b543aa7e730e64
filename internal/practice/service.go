package practice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
	"github.com/abhisek/practiz/internal/session"
)

// ErrNotLoggedIn is returned when no desk exists for a username.
var ErrNotLoggedIn = errors.New("not logged in")

// Options tunes a Service. The zero value is ready for production use.
type Options struct {
	// Clock overrides time.Now for every desk.
	Clock session.Clock

	// NewRand returns the randomness source for a new desk.
	NewRand func() *rand.Rand
}

// Service owns one Desk per logged-in username.
type Service struct {
	bank *questions.Bank
	repo progress.Repo
	opts Options

	mu    sync.Mutex
	desks map[string]*Desk
}

// NewService creates a Service over an immutable bank and a progress repo.
func NewService(bank *questions.Bank, repo progress.Repo, opts Options) *Service {
	if opts.NewRand == nil {
		opts.NewRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return &Service{
		bank:  bank,
		repo:  repo,
		opts:  opts,
		desks: make(map[string]*Desk),
	}
}

// Bank returns the question bank.
func (s *Service) Bank() *questions.Bank {
	return s.bank
}

// Login loads the user's progress and returns their desk. Logging in again
// with the same name returns the existing desk and its in-flight session.
func (s *Service) Login(username string) (*Desk, error) {
	name, err := progress.CleanUsername(username)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.desks[name]; ok {
		return d, nil
	}

	p, err := s.repo.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load progress for %s: %w", name, err)
	}

	d := newDesk(name, s.bank, s.repo, p, s.opts.Clock, s.opts.NewRand())
	s.desks[name] = d
	return d, nil
}

// Desk returns the desk of a logged-in user.
func (s *Service) Desk(username string) (*Desk, error) {
	name, err := progress.CleanUsername(username)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.desks[name]
	if !ok {
		return nil, ErrNotLoggedIn
	}
	return d, nil
}

// Logout saves the user's progress and discards their desk.
// Logging out a user who is not logged in is a no-op.
func (s *Service) Logout(username string) error {
	name, err := progress.CleanUsername(username)
	if err != nil {
		return err
	}

	s.mu.Lock()
	d, ok := s.desks[name]
	delete(s.desks, name)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return d.save()
}

// LogoutAll saves and discards every desk. Used on shutdown.
func (s *Service) LogoutAll() error {
	s.mu.Lock()
	desks := s.desks
	s.desks = make(map[string]*Desk)
	s.mu.Unlock()

	var errs []error
	for _, d := range desks {
		if err := d.save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
