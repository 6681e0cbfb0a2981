package system

import (
	"time"

	coresys "github.com/emberworld/server/internal/core/system"
	"github.com/emberworld/server/internal/net"
)

// OutputSystem hands every session's buffered frames to its writer goroutine,
// once per tick. Phase 2 (Output), registered after the broadcaster.
type OutputSystem struct {
	store *SessionStore
}

func NewOutputSystem(store *SessionStore) *OutputSystem {
	return &OutputSystem{store: store}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}
