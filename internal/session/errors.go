package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotStarted      = errors.New("session not started")
	ErrAlreadyStarted  = errors.New("a session is already open")
	ErrSessionOver     = errors.New("session is over")
	ErrNotOver         = errors.New("session is still in progress")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotCurrent      = errors.New("question is not the current question")
)

// ErrInsufficientPool means the filters left fewer questions than requested.
// The session is not started and prior state is untouched.
type ErrInsufficientPool struct {
	Available int
	Requested int
}

func (e *ErrInsufficientPool) Error() string {
	return fmt.Sprintf("not enough questions for these filters: %d available, %d requested", e.Available, e.Requested)
}
