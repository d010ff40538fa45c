package model

import "time"

type SessionID string

// Session is the host-defined scope against which identifier counters
// and the utterance cache are reset. Sessions are created by the host
// runtime and only observed here; the tracker compares them by
// pointer identity, not by value.
type Session struct {
	ID        SessionID
	StartedAt time.Time
}

// NewSession builds a Session from the host-reported identifier and
// start time in seconds since epoch.
func NewSession(id SessionID, startedAt int64) *Session {
	return &Session{
		ID:        id,
		StartedAt: time.Unix(startedAt, 0).UTC(),
	}
}
