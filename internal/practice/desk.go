package practice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
	"github.com/abhisek/practiz/internal/session"
)

// Desk is one user's workspace: their progress, the pending session setup
// and the current session. All methods are safe for concurrent use.
type Desk struct {
	username string
	bank     *questions.Bank
	repo     progress.Repo

	mu       sync.Mutex
	progress *progress.UserProgress
	setup    session.Config
	state    *session.SessionState
	rng      *rand.Rand
	saved    bool // progress already written for the session that just ended
}

func newDesk(username string, bank *questions.Bank, repo progress.Repo, p *progress.UserProgress, clock session.Clock, rng *rand.Rand) *Desk {
	return &Desk{
		username: username,
		bank:     bank,
		repo:     repo,
		progress: p,
		setup:    session.DefaultConfig(),
		state:    session.NewSessionState(clock),
		rng:      rng,
	}
}

// Username returns the desk owner.
func (d *Desk) Username() string {
	return d.username
}

// Systems returns the bank's system names for the setup form.
func (d *Desk) Systems() []string {
	return d.bank.Systems()
}

// Setup returns the session setup that Start will use.
func (d *Desk) Setup() session.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	cfg := d.setup
	cfg.Systems = append([]string(nil), cfg.Systems...)
	cfg.Filters = append([]session.Filter(nil), cfg.Filters...)
	return cfg
}

// Configure replaces the session setup. Systems must exist in the bank.
func (d *Desk) Configure(cfg session.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	known := make(map[string]bool)
	for _, s := range d.bank.Systems() {
		known[s] = true
	}
	for _, s := range cfg.Systems {
		if !known[s] {
			return fmt.Errorf("unknown system %q", s)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.setup = cfg
	return nil
}

// Start begins a session with the current setup. It returns
// session.ErrAlreadyStarted while a session is open or unreviewed; call
// NewSession first. An insufficient pool returns
// *session.ErrInsufficientPool and leaves the desk unchanged.
func (d *Desk) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// A session that timed out unnoticed still gets its end-of-session save.
	session.Tick(d.state)
	if err := d.settle(nil); err != nil {
		return err
	}

	err := session.Start(d.state, session.StartInput{
		Bank:     d.bank.All(),
		Progress: d.progress,
		Config:   d.setup,
		Rand:     d.rng,
	})
	if err != nil {
		return err
	}
	d.saved = false
	return nil
}

// Submit answers the current question. id guards against a stale form
// answering a later question.
func (d *Desk) Submit(id questions.ID, choice string) (*session.AnswerResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := session.SubmitAnswer(d.state, d.progress, id, choice)
	return res, d.settle(err)
}

// SetConfidence tags the current question with a confidence level.
func (d *Desk) SetConfidence(level progress.Confidence) error {
	if _, err := progress.ParseConfidence(string(level)); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	q, err := d.current()
	if err != nil {
		return d.settle(err)
	}
	d.progress.SetConfidence(q.ID, level)
	return nil
}

// ToggleMark flips the review mark on the current question and returns
// whether it is now marked.
func (d *Desk) ToggleMark() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q, err := d.current()
	if err != nil {
		return false, d.settle(err)
	}
	return d.progress.ToggleMark(q.ID), nil
}

// Next moves past the current question, answered or not. It returns true
// once the session is over; progress is saved at that point.
func (d *Desk) Next() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	over, err := session.Advance(d.state)
	return over, d.settle(err)
}

// Tick ends a timed-out session. It returns true if the session is over.
func (d *Desk) Tick() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	over := session.Tick(d.state)
	return over, d.settle(nil)
}

// NewSession abandons or closes the current session and returns the desk
// to setup. Answers already given stay in the user's progress.
func (d *Desk) NewSession() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.state.Started() && !d.saved {
		err = d.saveLocked()
	}
	session.Reset(d.state)
	d.saved = false
	return err
}

// Summary scores the finished session.
func (d *Desk) Summary() (*session.SessionSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	session.Tick(d.state)
	if err := d.settle(nil); err != nil {
		return nil, err
	}
	return session.BuildSummary(d.state)
}

// Overview reports per-system progress for this user.
func (d *Desk) Overview() *Overview {
	d.mu.Lock()
	defer d.mu.Unlock()
	return BuildOverview(d.bank, d.progress)
}

// Snapshot returns a read-only view of the desk for rendering.
func (d *Desk) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	session.Tick(d.state)
	saveErr := d.settle(nil)

	st := d.state
	snap := Snapshot{
		SaveErr:   saveErr,
		Username:  d.username,
		SessionID: st.ID,
		Phase:     st.Phase,
		Mode:      st.Mode,
		Index:     st.CurrentIndex,
		Total:     len(st.Questions),
		Answered:  len(st.Answers),
		Elapsed:   session.Elapsed(st),
		TimedOut:  st.TimedOut,
	}
	snap.Remaining, snap.Timed = session.Remaining(st)

	if q, ok := session.CurrentQuestion(st); ok {
		cp := q.Clone()
		snap.Question = &cp
		snap.Choice, snap.HasAnswer = st.Answers[q.ID]
		snap.Correct = snap.HasAnswer && q.IsCorrect(snap.Choice)
		snap.ShowExplanation = st.ShowExplanation
		snap.Marked = d.progress.IsMarked(q.ID)
		snap.Confidence = d.progress.Confidence[q.ID]
	}
	return snap
}

// save writes the user's progress now.
func (d *Desk) save() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveLocked()
}

func (d *Desk) saveLocked() error {
	if err := d.repo.Save(d.username, d.progress); err != nil {
		return fmt.Errorf("save progress for %s: %w", d.username, err)
	}
	return nil
}

// settle persists progress the first time the session is seen to be over.
// A save failure is joined onto err.
func (d *Desk) settle(err error) error {
	if !d.state.Over() || d.saved {
		return err
	}
	if saveErr := d.saveLocked(); saveErr != nil {
		return errors.Join(err, saveErr)
	}
	d.saved = true
	return err
}

func (d *Desk) current() (*questions.Question, error) {
	switch {
	case !d.state.Started():
		return nil, session.ErrNotStarted
	case session.Tick(d.state):
		return nil, session.ErrSessionOver
	}
	q, ok := session.CurrentQuestion(d.state)
	if !ok {
		return nil, session.ErrSessionOver
	}
	return q, nil
}

// Snapshot is a point-in-time copy of a desk's visible state.
type Snapshot struct {
	Username  string
	SessionID string
	Phase     session.SessionPhase
	Mode      session.Mode

	// Index is the zero-based position of Question; Total is the session size.
	Index    int
	Total    int
	Answered int

	Question        *questions.Question // nil unless in progress
	Choice          string
	HasAnswer       bool
	Correct         bool
	ShowExplanation bool
	Marked          bool
	Confidence      progress.Confidence

	Elapsed   time.Duration
	Remaining time.Duration
	Timed     bool
	TimedOut  bool

	// SaveErr is set when the end-of-session save failed; it is retried
	// on the next call.
	SaveErr error
}
