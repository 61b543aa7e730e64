package session

import "time"

// timerTickMsg is sent every second to refresh the clock and check the limit.
type timerTickMsg time.Time

// sessionEndMsg is sent to trigger the summary once the session is over.
type sessionEndMsg struct{}
