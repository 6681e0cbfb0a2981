package net

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/emberworld/server/internal/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn *websocket.Conn

	state atomic.Int32 // protocol.SessionState stored as int32

	InQueue  chan []byte // game loop reads frames from here
	OutQueue chan []byte // writer goroutine reads from here

	IP            string
	Username      string
	CharacterName string

	outBuf [][]byte // buffered frames, flushed once per tick (game loop only)

	limiter *rate.Limiter

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	onClose   func(id uint64)

	log *zap.Logger
}

func NewSession(conn *websocket.Conn, id uint64, cfg Config, onClose func(uint64), log *zap.Logger) *Session {
	s := &Session{
		ID:       id,
		conn:     conn,
		InQueue:  make(chan []byte, cfg.InQueueSize),
		OutQueue: make(chan []byte, cfg.OutQueueSize),
		IP:       conn.RemoteAddr().String(),
		closeCh:  make(chan struct{}),
		onClose:  onClose,
		log:      log.With(zap.Uint64("session", id)),
	}
	if cfg.MessagesPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.MessagesPerSecond), cfg.MessageBurst)
	}
	s.state.Store(int32(protocol.StateConnected))
	return s
}

// SessionID exposes the id behind an interface for packages that must not
// import this one.
func (s *Session) SessionID() uint64 {
	return s.ID
}

// SetIdentity records the authenticated account on the session.
// Called from the game loop after a successful login.
func (s *Session) SetIdentity(username, characterName string) {
	s.Username = username
	s.CharacterName = characterName
}

func (s *Session) State() protocol.SessionState {
	return protocol.SessionState(s.state.Load())
}

func (s *Session) SetState(st protocol.SessionState) {
	s.state.Store(int32(st))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start(maxMessageSize int64) {
	if maxMessageSize > 0 {
		s.conn.SetReadLimit(maxMessageSize)
	}
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers an encoded frame. Nothing is written to the socket until
// FlushOutput runs at the end of the tick.
// Called only from the game loop goroutine, so outBuf needs no lock.
func (s *Session) Send(data []byte) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, data)
}

// SendMessage encodes and buffers a message.
func (s *Session) SendMessage(msg protocol.Message) {
	data, err := protocol.Encode(msg)
	if err != nil {
		s.log.Error("message encode failed", zap.String("type", msg.Type()), zap.Error(err))
		return
	}
	s.Send(data)
}

// FlushOutput drains the output buffer to OutQueue for the writeLoop
// goroutine, once per tick. Non-blocking: if OutQueue is full the session is
// disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, data := range s.outBuf {
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("output queue full, dropping slow connection")
			s.Close()
			s.outBuf = s.outBuf[:0]
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(protocol.StateClosing)
		close(s.closeCh)
		s.conn.Close()
		if s.onClose != nil {
			s.onClose(s.ID)
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// readLoop reads frames from the socket and pushes them onto InQueue for the
// game loop to consume.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		if s.limiter != nil && !s.limiter.Allow() {
			s.log.Warn("message rate exceeded, dropping connection")
			return
		}

		// Block until InQueue has space or the session closes. Dropping input
		// frames causes permanent position desync since the server replays
		// every sequence number, so backpressure lands on this client alone.
		select {
		case s.InQueue <- data:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop drains OutQueue to the socket and keeps the connection alive
// with periodic pings.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case data := <-s.OutQueue:
			if !s.writeFrame(websocket.TextMessage, data) {
				return
			}
		case <-ticker.C:
			if !s.writeFrame(websocket.PingMessage, nil) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeFrame(messageType int, data []byte) bool {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(messageType, data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
