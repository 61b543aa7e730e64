package questions

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a question. Datasets may use JSON numbers or strings;
// both are normalized to their string form.
type ID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Question is a single multiple-choice record from the question bank.
type Question struct {
	ID          ID       `json:"id"`
	System      string   `json:"system"`
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Clone returns a copy whose Options slice can be reordered freely.
func (q Question) Clone() Question {
	c := q
	c.Options = append([]string(nil), q.Options...)
	return c
}

// IsCorrect reports whether choice matches the answer exactly.
// No trimming or case folding is applied.
func (q Question) IsCorrect(choice string) bool {
	return choice == q.Answer
}
