package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Session identifies this editor instance on the bridge and numbers the
// pixel ops it emits.
type Session struct {
	id  string
	seq atomic.Uint64
}

// NewSession creates a session with a fresh random id.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

func (s *Session) ID() string {
	return s.id
}

// Next returns the next op sequence number, starting at 1.
func (s *Session) Next() uint64 {
	return s.seq.Add(1)
}

// Stamp fills in the session id and the next sequence number.
func (s *Session) Stamp(op Op) Op {
	op.Seq = s.Next()
	op.Session = s.id
	return op
}
