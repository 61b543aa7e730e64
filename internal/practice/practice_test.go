package practice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
	"github.com/abhisek/practiz/internal/session"
)

// mockRepo implements progress.Repo in memory.
type mockRepo struct {
	mu      sync.Mutex
	data    map[string]*progress.UserProgress
	saves   map[string]int
	loadErr error
	saveErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		data:  make(map[string]*progress.UserProgress),
		saves: make(map[string]int),
	}
}

func (m *mockRepo) Load(username string) (*progress.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if p, ok := m.data[username]; ok {
		return p, nil
	}
	return progress.New(), nil
}

func (m *mockRepo) Save(username string, p *progress.UserProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[username] = p
	m.saves[username]++
	return nil
}

func (m *mockRepo) saveCount(username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[username]
}

// testClock is a goroutine-safe manual clock.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testBank(t *testing.T, n int) *questions.Bank {
	t.Helper()
	systems := []string{"Cardiovascular", "Renal", "Neurology"}
	qs := make([]questions.Question, n)
	for i := range qs {
		id := questions.ID(fmt.Sprint(i + 1))
		qs[i] = questions.Question{
			ID:          id,
			System:      systems[i%len(systems)],
			Text:        fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"alpha", "beta", "gamma", "delta"},
			Answer:      "beta",
			Explanation: "Beta is right.",
		}
	}
	bank, err := questions.New(qs, "test")
	require.NoError(t, err)
	return bank
}

func newTestService(t *testing.T, n int) (*Service, *mockRepo, *testClock) {
	t.Helper()
	repo := newMockRepo()
	clock := &testClock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	seed := uint64(0)
	svc := NewService(testBank(t, n), repo, Options{
		Clock: clock.Now,
		NewRand: func() *rand.Rand {
			seed++
			return rand.New(rand.NewPCG(seed, 99))
		},
	})
	return svc, repo, clock
}

func startDesk(t *testing.T, svc *Service, cfg session.Config) *Desk {
	t.Helper()
	d, err := svc.Login("ana")
	require.NoError(t, err)
	require.NoError(t, d.Configure(cfg))
	require.NoError(t, d.Start())
	return d
}

func TestLogin_ReturnsSameDesk(t *testing.T) {
	svc, _, _ := newTestService(t, 6)

	d1, err := svc.Login("ana")
	require.NoError(t, err)
	d2, err := svc.Login("  ana ")
	require.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, "ana", d1.Username())

	got, err := svc.Desk("ana")
	require.NoError(t, err)
	assert.Same(t, d1, got)
}

func TestLogin_Errors(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)

	_, err := svc.Login("../etc")
	assert.ErrorIs(t, err, progress.ErrInvalidUsername)

	repo.loadErr = errors.New("disk on fire")
	_, err = svc.Login("bo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	_, err = svc.Desk("bo")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogout_SavesAndForgets(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 2, Mode: session.ModeReading})

	snap := d.Snapshot()
	_, err := d.Submit(snap.Question.ID, "beta")
	require.NoError(t, err)

	require.NoError(t, svc.Logout("ana"))
	assert.Equal(t, 1, repo.saveCount("ana"))
	assert.True(t, repo.data["ana"].Correct.Has(snap.Question.ID))

	_, err = svc.Desk("ana")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	// Second logout is a no-op.
	require.NoError(t, svc.Logout("ana"))
	assert.Equal(t, 1, repo.saveCount("ana"))
}

func TestLogin_RestoresSavedProgress(t *testing.T) {
	svc, _, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 1, Mode: session.ModeReading})
	_, err := d.ToggleMark()
	require.NoError(t, err)
	marked := d.Snapshot().Question.ID
	require.NoError(t, svc.Logout("ana"))

	d, err = svc.Login("ana")
	require.NoError(t, err)
	require.NoError(t, d.Configure(session.Config{Count: 1, Mode: session.ModeReading, Filters: []session.Filter{session.FilterMarked}}))
	require.NoError(t, d.Start())
	assert.Equal(t, marked, d.Snapshot().Question.ID)
}

func TestDesk_SavesOnceWhenSessionEnds(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 2, Mode: session.ModeReading})

	for i := 0; i < 2; i++ {
		snap := d.Snapshot()
		_, err := d.Submit(snap.Question.ID, "beta")
		require.NoError(t, err)
		assert.Equal(t, 0, repo.saveCount("ana"), "no save mid-session")
		_, err = d.Next()
		require.NoError(t, err)
	}

	assert.Equal(t, 1, repo.saveCount("ana"))
	_, err := d.Summary()
	require.NoError(t, err)
	_, err = d.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saveCount("ana"))

	sum, err := d.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Score)
}

func TestDesk_TimeoutSavesAndRejectsAnswers(t *testing.T) {
	svc, repo, clock := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 2, Mode: session.ModeTest})

	snap := d.Snapshot()
	assert.True(t, snap.Timed)
	assert.Equal(t, 180*time.Second, snap.Remaining)

	clock.Advance(181 * time.Second)
	_, err := d.Submit(snap.Question.ID, "beta")
	assert.ErrorIs(t, err, session.ErrSessionOver)
	assert.Equal(t, 1, repo.saveCount("ana"))

	over, err := d.Tick()
	require.NoError(t, err)
	assert.True(t, over)
	assert.Equal(t, 1, repo.saveCount("ana"))

	sum, err := d.Summary()
	require.NoError(t, err)
	assert.True(t, sum.TimedOut)
	assert.Equal(t, 0, sum.Score)
	assert.Equal(t, session.UnansweredPlaceholder, sum.Items[0].UserAnswer)
}

func TestDesk_ExplanationVisibility(t *testing.T) {
	svc, _, _ := newTestService(t, 6)

	d := startDesk(t, svc, session.Config{Count: 2, Mode: session.ModeReading})
	q := d.Snapshot().Question
	res, err := d.Submit(q.ID, "alpha")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	snap := d.Snapshot()
	assert.True(t, snap.ShowExplanation)
	assert.True(t, snap.HasAnswer)
	assert.Equal(t, "alpha", snap.Choice)

	require.NoError(t, d.NewSession())
	require.NoError(t, d.Configure(session.Config{Count: 2, Mode: session.ModeTest}))
	require.NoError(t, d.Start())
	q = d.Snapshot().Question
	_, err = d.Submit(q.ID, "beta")
	require.NoError(t, err)
	assert.False(t, d.Snapshot().ShowExplanation)
}

func TestDesk_StaleSubmit(t *testing.T) {
	svc, _, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 3, Mode: session.ModeTest})

	first := d.Snapshot().Question.ID
	_, err := d.Next()
	require.NoError(t, err)

	_, err = d.Submit(first, "beta")
	assert.ErrorIs(t, err, session.ErrNotCurrent)
}

func TestDesk_ConfidenceAndMark(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 1, Mode: session.ModeTest})
	id := d.Snapshot().Question.ID

	require.NoError(t, d.SetConfidence(progress.ConfidenceHigh))
	assert.Error(t, d.SetConfidence("certain"))

	marked, err := d.ToggleMark()
	require.NoError(t, err)
	assert.True(t, marked)

	snap := d.Snapshot()
	assert.True(t, snap.Marked)
	assert.Equal(t, progress.ConfidenceHigh, snap.Confidence)

	over, err := d.Next()
	require.NoError(t, err)
	require.True(t, over)

	saved := repo.data["ana"]
	assert.True(t, saved.Marked.Has(id))
	assert.Equal(t, progress.ConfidenceHigh, saved.Confidence[id])

	_, err = d.ToggleMark()
	assert.ErrorIs(t, err, session.ErrSessionOver)
}

func TestDesk_ConfigureAndStartErrors(t *testing.T) {
	svc, _, _ := newTestService(t, 6)
	d, err := svc.Login("ana")
	require.NoError(t, err)

	assert.Error(t, d.Configure(session.Config{Count: 2, Mode: session.ModeTest, Systems: []string{"Dermatology"}}))
	assert.Error(t, d.Configure(session.Config{Count: 0, Mode: session.ModeTest}))

	require.NoError(t, d.Configure(session.Config{Count: 3, Mode: session.ModeTest, Systems: []string{"Renal"}}))
	err = d.Start()
	var insufficient *session.ErrInsufficientPool
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, session.PhaseNotStarted, d.Snapshot().Phase)

	_, err = d.Next()
	assert.ErrorIs(t, err, session.ErrNotStarted)
	assert.ErrorIs(t, d.SetConfidence(progress.ConfidenceLow), session.ErrNotStarted)
}

func TestDesk_NewSessionSavesAbandonedRun(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 3, Mode: session.ModeReading})

	q := d.Snapshot().Question
	_, err := d.Submit(q.ID, "beta")
	require.NoError(t, err)

	require.NoError(t, d.NewSession())
	assert.Equal(t, 1, repo.saveCount("ana"))
	assert.Equal(t, session.PhaseNotStarted, d.Snapshot().Phase)

	// Setup survives a new session.
	assert.Equal(t, 3, d.Setup().Count)
}

func TestDesk_SaveFailureSurfaces(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 1, Mode: session.ModeReading})
	repo.saveErr = errors.New("read-only fs")

	_, err := d.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only fs")

	// Retried on the next interaction once the disk recovers.
	repo.saveErr = nil
	_, err = d.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saveCount("ana"))
}

func TestDesk_StartKeepsOpenSession(t *testing.T) {
	svc, _, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 5, Mode: session.ModeTest})

	first := d.Snapshot()
	_, err := d.Submit(first.Question.ID, "beta")
	require.NoError(t, err)

	assert.ErrorIs(t, d.Start(), session.ErrAlreadyStarted)

	snap := d.Snapshot()
	assert.Equal(t, first.SessionID, snap.SessionID)
	assert.Equal(t, 1, snap.Answered)
	assert.True(t, snap.HasAnswer)

	require.NoError(t, d.NewSession())
	require.NoError(t, d.Start())
	assert.NotEqual(t, first.SessionID, d.Snapshot().SessionID)
}

func TestDesk_StartSavesUnnoticedTimeout(t *testing.T) {
	svc, repo, clock := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 2, Mode: session.ModeTest})

	clock.Advance(time.Hour)
	assert.ErrorIs(t, d.Start(), session.ErrAlreadyStarted)
	assert.Equal(t, 1, repo.saveCount("ana"), "timed-out session is saved before the restart is refused")

	sum, err := d.Summary()
	require.NoError(t, err)
	assert.True(t, sum.TimedOut)
}

func TestDesk_SnapshotReportsSaveFailure(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)
	d := startDesk(t, svc, session.Config{Count: 1, Mode: session.ModeReading})
	repo.saveErr = errors.New("read-only fs")

	_, err := d.Next()
	require.Error(t, err)

	snap := d.Snapshot()
	require.Error(t, snap.SaveErr)
	assert.Contains(t, snap.SaveErr.Error(), "read-only fs")

	repo.saveErr = nil
	assert.NoError(t, d.Snapshot().SaveErr)
	assert.NoError(t, d.Snapshot().SaveErr)
	assert.Equal(t, 1, repo.saveCount("ana"))
}

func TestDesk_ConcurrentUse(t *testing.T) {
	svc, _, _ := newTestService(t, 30)
	d := startDesk(t, svc, session.Config{Count: 20, Mode: session.ModeReading})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				snap := d.Snapshot()
				if snap.Question != nil {
					d.Submit(snap.Question.ID, "beta")
				}
				d.Next()
			}
		}()
	}
	wg.Wait()

	snap := d.Snapshot()
	assert.LessOrEqual(t, snap.Index, snap.Total)
	assert.Equal(t, session.PhaseOver, snap.Phase)
}

func TestLogoutAll(t *testing.T) {
	svc, repo, _ := newTestService(t, 6)
	_, err := svc.Login("ana")
	require.NoError(t, err)
	_, err = svc.Login("bo")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll())
	assert.Equal(t, 1, repo.saveCount("ana"))
	assert.Equal(t, 1, repo.saveCount("bo"))
}

func TestBuildOverview(t *testing.T) {
	bank := testBank(t, 6) // ids 1,4 Cardio; 2,5 Renal; 3,6 Neuro
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := progress.New()
	p.RecordAttempt("1", true, at)
	p.RecordAttempt("4", false, at)
	p.RecordAttempt("2", true, at)
	p.ToggleMark("6")
	p.Marked.Add("999") // no longer in the bank

	ov := BuildOverview(bank, p)
	require.Len(t, ov.Systems, 3)

	byName := make(map[string]SystemStats)
	for _, s := range ov.Systems {
		byName[s.System] = s
	}
	assert.Equal(t, []string{"Cardiovascular", "Neurology", "Renal"}, []string{ov.Systems[0].System, ov.Systems[1].System, ov.Systems[2].System})

	cardio := byName["Cardiovascular"]
	assert.Equal(t, SystemStats{System: "Cardiovascular", Total: 2, Attempted: 2, Correct: 1, Incorrect: 1}, cardio)
	assert.InDelta(t, 0.5, cardio.Accuracy(), 1e-9)
	assert.Equal(t, 1, byName["Neurology"].Marked)
	assert.Equal(t, 1, byName["Renal"].Unused())

	assert.Equal(t, 6, ov.All.Total)
	assert.Equal(t, 3, ov.All.Attempted)
	assert.Equal(t, 1, ov.All.Marked)
	assert.Equal(t, 0.0, SystemStats{}.Accuracy())
}
