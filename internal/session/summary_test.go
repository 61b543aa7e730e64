package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummary_RequiresOver(t *testing.T) {
	clock := newFakeClock()

	_, err := BuildSummary(NewSessionState(clock.Now))
	assert.True(t, errors.Is(err, ErrNotStarted))

	state := startTestSession(t, clock, testBank(4), Config{Count: 2, Mode: ModeReading})
	_, err = BuildSummary(state)
	assert.True(t, errors.Is(err, ErrNotOver))
}

func TestBuildSummary_ScoresAndPlaceholders(t *testing.T) {
	clock := newFakeClock()
	state := startTestSession(t, clock, testBank(6), Config{Count: 3, Mode: ModeTest})

	// Right, wrong, skipped.
	q, _ := CurrentQuestion(state)
	_, err := SubmitAnswer(state, nil, q.ID, q.Answer)
	require.NoError(t, err)
	Advance(state)

	q, _ = CurrentQuestion(state)
	wrong := q.Options[0]
	if wrong == q.Answer {
		wrong = q.Options[1]
	}
	_, err = SubmitAnswer(state, nil, q.ID, wrong)
	require.NoError(t, err)
	Advance(state)

	clock.Advance(45 * time.Second)
	over, err := Advance(state)
	require.NoError(t, err)
	require.True(t, over)

	sum, err := BuildSummary(state)
	require.NoError(t, err)

	assert.Equal(t, state.ID, sum.SessionID)
	assert.Equal(t, ModeTest, sum.Mode)
	assert.Equal(t, 1, sum.Score)
	assert.Equal(t, 3, sum.Total)
	assert.InDelta(t, 1.0/3.0, sum.Accuracy, 1e-9)
	assert.Equal(t, 45*time.Second, sum.Duration)
	assert.False(t, sum.TimedOut)

	require.Len(t, sum.Items, 3)
	assert.True(t, sum.Items[0].Correct)
	assert.Equal(t, wrong, sum.Items[1].UserAnswer)
	assert.False(t, sum.Items[1].Correct)
	assert.False(t, sum.Items[2].Answered)
	assert.Equal(t, UnansweredPlaceholder, sum.Items[2].UserAnswer)
	assert.False(t, sum.Items[2].Correct)
}

func TestBuildSummary_Idempotent(t *testing.T) {
	clock := newFakeClock()
	state := startTestSession(t, clock, testBank(4), Config{Count: 2, Mode: ModeTest})
	q, _ := CurrentQuestion(state)
	SubmitAnswer(state, nil, q.ID, q.Answer)
	clock.Advance(5 * time.Minute)
	require.True(t, Tick(state))

	first, err := BuildSummary(state)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := BuildSummary(state)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.TimedOut)
	assert.Equal(t, 1, first.Score)
}
