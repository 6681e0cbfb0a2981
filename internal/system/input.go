package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/emberworld/server/internal/core/system"
	"github.com/emberworld/server/internal/handler"
	"github.com/emberworld/server/internal/net"
	"github.com/emberworld/server/internal/protocol"
)

// InputSystem accepts new connections, drains message queues through the
// registry, and cleans up dead sessions. Phase 0 (Input).
type InputSystem struct {
	server     *net.Server
	registry   *protocol.Registry
	store      *SessionStore
	deps       *handler.Deps
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(
	server *net.Server,
	registry *protocol.Registry,
	store *SessionStore,
	deps *handler.Deps,
	maxPerTick int,
	log *zap.Logger,
) *InputSystem {
	return &InputSystem{
		server:     server,
		registry:   registry,
		store:      store,
		deps:       deps,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	for {
		select {
		case sess := <-s.server.NewSessions():
			s.store.Add(sess)
		default:
			goto doneNew
		}
	}
doneNew:

	for {
		select {
		case id := <-s.server.DeadSessions():
			if sess := s.store.Get(id); sess != nil {
				s.teardown(sess)
			}
		default:
			goto doneDead
		}
	}
doneDead:

	for _, sess := range s.store.Raw() {
		// The dead channel is best effort; catch sessions that closed without
		// getting a slot on it.
		if sess.IsClosed() {
			s.teardown(sess)
			continue
		}
		s.drain(sess)
	}
}

// drain dispatches up to maxPerTick queued frames for one session. A message
// illegal in the session's state is a protocol violation and drops the client.
func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Warn("protocol violation, disconnecting",
					zap.Uint64("session", sess.ID),
					zap.Error(err),
				)
				sess.Close()
				return
			}
		default:
			return
		}
	}
}

// teardown drains what the client managed to send before dying, then removes
// its presence from the world.
func (s *InputSystem) teardown(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case data := <-sess.InQueue:
			if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
				s.log.Debug("dispatch during teardown",
					zap.Uint64("session", sess.ID),
					zap.Error(err),
				)
			}
		default:
			goto drained
		}
	}
drained:
	s.deps.HandleDisconnect(sess.ID)
	s.store.Remove(sess.ID)
}
