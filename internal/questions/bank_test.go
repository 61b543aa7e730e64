package questions

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Bundled(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, b.Len(), 10)

	systems := b.Systems()
	require.NotEmpty(t, systems)
	for i := 1; i < len(systems); i++ {
		assert.Less(t, systems[i-1], systems[i], "systems must be sorted and distinct")
	}

	total := 0
	for _, n := range b.CountBySystem() {
		total += n
	}
	assert.Equal(t, b.Len(), total)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	raw := `[
		{"id": "a1", "system": "Renal", "question": "Q?", "options": ["x", "y"], "answer": "y", "explanation": "because"},
		{"id": 7, "system": "Cardio", "question": "Q2?", "options": ["p", "q", "r"], "answer": "p", "explanation": ""}
	]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []string{"Cardio", "Renal"}, b.Systems())

	q, ok := b.Get("7")
	require.True(t, ok, "numeric ids are addressable by their string form")
	assert.Equal(t, "Q2?", q.Text)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `[{"id": 1,`},
		{"not an array", `{"id": 1}`},
		{"empty array", `[]`},
		{"missing answer", `[{"id": 1, "system": "S", "question": "Q", "options": ["a", "b"], "explanation": ""}]`},
		{"single option", `[{"id": 1, "system": "S", "question": "Q", "options": ["a"], "answer": "a", "explanation": ""}]`},
		{"answer not an option", `[{"id": 1, "system": "S", "question": "Q", "options": ["a", "b"], "answer": "c", "explanation": ""}]`},
		{"duplicate ids", `[
			{"id": 1, "system": "S", "question": "Q", "options": ["a", "b"], "answer": "a", "explanation": ""},
			{"id": "1", "system": "S", "question": "Q", "options": ["a", "b"], "answer": "a", "explanation": ""}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw), "test")
			require.Error(t, err)
			var malformed *ErrMalformed
			assert.True(t, errors.As(err, &malformed), "want *ErrMalformed, got %T", err)
		})
	}
}

func TestBank_CopiesAreIndependent(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)

	all := b.All()
	original := append([]string(nil), all[0].Options...)
	all[0].Options[0], all[0].Options[1] = all[0].Options[1], all[0].Options[0]

	again, ok := b.Get(all[0].ID)
	require.True(t, ok)
	assert.Equal(t, original, again.Options, "mutating a copy must not touch the bank")
}

func TestID_UnmarshalJSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[12, "q-3", 4.0]`), &ids))
	assert.Equal(t, []ID{"12", "q-3", "4.0"}, ids)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestQuestion_IsCorrect_ExactMatch(t *testing.T) {
	q := Question{Answer: "Right coronary artery"}
	assert.True(t, q.IsCorrect("Right coronary artery"))
	assert.False(t, q.IsCorrect("right coronary artery"))
	assert.False(t, q.IsCorrect(" Right coronary artery"))
	assert.False(t, q.IsCorrect("RCA"))
}
