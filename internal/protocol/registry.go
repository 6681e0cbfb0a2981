package protocol

import (
	"fmt"

	"go.uber.org/zap"
)

// SessionState is the session's current protocol phase. Handlers declare the
// states they accept so a client cannot, say, submit inputs before logging in.
type SessionState int

const (
	StateConnected SessionState = iota // socket open, not authenticated
	StatePlaying                       // logged in, entity in the world
	StateClosing
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StatePlaying:
		return "Playing"
	case StateClosing:
		return "Closing"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// HandlerFunc is the callback signature for message handlers. The session
// pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, msg Message)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps message types to handlers with state-based access control.
type Registry struct {
	handlers map[string]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]*handlerEntry),
		log:      log,
	}
}

// Register maps a message type to a handler, restricted to the given states.
func (reg *Registry) Register(msgType string, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[msgType] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// Dispatch decodes a client frame, validates the session state, and calls the
// handler. Unknown message types are logged and ignored so an old client does
// not get disconnected over a vestigial message.
func (reg *Registry) Dispatch(sess any, state SessionState, data []byte) error {
	msg, err := DecodeClient(data)
	if err != nil {
		reg.log.Debug("undecodable message",
			zap.String("state", state.String()),
			zap.Error(err),
		)
		return nil
	}

	entry, ok := reg.handlers[msg.Type()]
	if !ok {
		reg.log.Debug("unhandled message type",
			zap.String("type", msg.Type()),
			zap.String("state", state.String()),
		)
		return nil
	}

	if !entry.allowedStates[state] {
		reg.log.Warn("message not allowed in state",
			zap.String("type", msg.Type()),
			zap.String("state", state.String()),
		)
		return fmt.Errorf("message %s not allowed in state %s", msg.Type(), state)
	}

	return reg.safeCall(entry.fn, sess, msg)
}

// safeCall executes a handler with panic recovery to prevent a single bad
// message from crashing the entire game loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, msg Message) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.String("type", msg.Type()),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for message %s: %v", msg.Type(), rec)
		}
	}()
	fn(sess, msg)
	return nil
}
