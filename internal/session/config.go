package session

import (
	"fmt"
	"time"
)

// Mode selects how feedback and timing behave during a session.
type Mode string

const (
	// ModeReading reveals the explanation right after each answer and is untimed.
	ModeReading Mode = "reading"
	// ModeTest withholds explanations until the end and enforces a time limit.
	ModeTest Mode = "test"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeReading, ModeTest}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Filter admits questions into the pool based on the user's history.
type Filter string

const (
	FilterUnused    Filter = "unused"    // never attempted
	FilterIncorrect Filter = "incorrect" // last attempt was wrong
	FilterMarked    Filter = "marked"    // marked for review
)

// Filters lists the supported filters in display order.
var Filters = []Filter{FilterUnused, FilterIncorrect, FilterMarked}

// ParseFilter validates a filter string.
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// TimePerQuestion is the test-mode allowance per question.
const TimePerQuestion = 90 * time.Second

// Count bounds offered by the setup forms.
const (
	DefaultCount = 20
	MinCount     = 5
	MaxCount     = 100
)

// Config describes the session a user asked for.
type Config struct {
	Count   int
	Systems []string // empty = every system
	Mode    Mode
	Filters []Filter // empty = no history filter; several are OR-ed
}

// DefaultConfig returns the setup shown before the user changes anything.
func DefaultConfig() Config {
	return Config{
		Count: DefaultCount,
		Mode:  ModeReading,
	}
}

// Validate checks the config is usable. It does not check the pool size.
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("question count must be at least 1, got %d", c.Count)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	for _, f := range c.Filters {
		if _, err := ParseFilter(string(f)); err != nil {
			return err
		}
	}
	return nil
}

// TimeLimit returns the session time limit, or 0 for untimed sessions.
func (c Config) TimeLimit() time.Duration {
	if c.Mode != ModeTest {
		return 0
	}
	return time.Duration(c.Count) * TimePerQuestion
}
