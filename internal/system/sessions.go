package system

import (
	"github.com/emberworld/server/internal/net"
)

// SessionStore tracks live sessions by id. Game loop only, so no locking.
type SessionStore struct {
	sessions map[uint64]*net.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[uint64]*net.Session),
	}
}

func (s *SessionStore) Add(sess *net.Session) {
	s.sessions[sess.ID] = sess
}

func (s *SessionStore) Remove(id uint64) {
	delete(s.sessions, id)
}

func (s *SessionStore) Get(id uint64) *net.Session {
	return s.sessions[id]
}

// Raw exposes the underlying map for iteration within a tick.
func (s *SessionStore) Raw() map[uint64]*net.Session {
	return s.sessions
}

func (s *SessionStore) ForEach(fn func(*net.Session)) {
	for _, sess := range s.sessions {
		fn(sess)
	}
}

func (s *SessionStore) Count() int {
	return len(s.sessions)
}
