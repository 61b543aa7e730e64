package progress

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/abhisek/practiz/internal/questions"
)

// IDSet is a set of question ids. It is persisted as a sorted JSON array.
type IDSet map[questions.ID]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...questions.ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id questions.ID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id.
func (s IDSet) Add(id questions.ID) {
	s[id] = struct{}{}
}

// Remove deletes id.
func (s IDSet) Remove(id questions.ID) {
	delete(s, id)
}

// Sorted returns the members in natural order: numeric ids numerically,
// then everything else lexically.
func (s IDSet) Sorted() []questions.ID {
	out := make([]questions.ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i], out[j]) })
	return out
}

// MarshalJSON writes the set as a sorted array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON reads an array of ids; null yields an empty set.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []questions.ID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

func lessID(a, b questions.ID) bool {
	ai, aerr := strconv.ParseInt(string(a), 10, 64)
	bi, berr := strconv.ParseInt(string(b), 10, 64)
	switch {
	case aerr == nil && berr == nil:
		if ai != bi {
			return ai < bi
		}
		return a < b // "07" before "7"
	case aerr == nil:
		return true
	case berr == nil:
		return false
	}
	return a < b
}
