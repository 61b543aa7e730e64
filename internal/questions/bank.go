package questions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed data/questions.json
var bundled []byte

// ErrMalformed indicates the dataset is not a valid question bank.
type ErrMalformed struct {
	Source string
	Err    error
}

func (e *ErrMalformed) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("malformed question bank %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("malformed question bank: %v", e.Err)
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

// Bank is the immutable, in-memory question store.
type Bank struct {
	questions []Question
	byID      map[ID]int
	systems   []string
}

// Load reads a question bank from a JSON file. An empty path loads the
// bundled dataset.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Parse(bundled, "bundled")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return Parse(raw, path)
}

// Parse validates and decodes raw dataset bytes. source is only used in
// error messages.
func Parse(raw []byte, source string) (*Bank, error) {
	if err := validateShape(raw); err != nil {
		if m, ok := err.(*ErrMalformed); ok {
			m.Source = source
		}
		return nil, err
	}

	var qs []Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, &ErrMalformed{Source: source, Err: err}
	}
	return New(qs, source)
}

// New builds a Bank from already-decoded questions, checking that ids are
// unique and that every answer is one of its options.
func New(qs []Question, source string) (*Bank, error) {
	b := &Bank{
		questions: make([]Question, 0, len(qs)),
		byID:      make(map[ID]int, len(qs)),
	}
	seen := make(map[string]bool)

	for i, q := range qs {
		if q.ID == "" {
			return nil, &ErrMalformed{Source: source, Err: fmt.Errorf("question %d: empty id", i)}
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, &ErrMalformed{Source: source, Err: fmt.Errorf("duplicate question id %q", q.ID)}
		}
		if !contains(q.Options, q.Answer) {
			return nil, &ErrMalformed{Source: source, Err: fmt.Errorf("question %q: answer %q is not one of its options", q.ID, q.Answer)}
		}
		b.byID[q.ID] = len(b.questions)
		b.questions = append(b.questions, q.Clone())
		if !seen[q.System] {
			seen[q.System] = true
			b.systems = append(b.systems, q.System)
		}
	}
	sort.Strings(b.systems)
	return b, nil
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.questions)
}

// All returns copies of every question in dataset order.
func (b *Bank) All() []Question {
	out := make([]Question, len(b.questions))
	for i, q := range b.questions {
		out[i] = q.Clone()
	}
	return out
}

// Get returns a copy of the question with the given id.
func (b *Bank) Get(id ID) (Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return b.questions[i].Clone(), true
}

// Systems returns the sorted distinct system names.
func (b *Bank) Systems() []string {
	return append([]string(nil), b.systems...)
}

// CountBySystem returns the number of questions per system.
func (b *Bank) CountBySystem() map[string]int {
	counts := make(map[string]int, len(b.systems))
	for _, q := range b.questions {
		counts[q.System]++
	}
	return counts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
