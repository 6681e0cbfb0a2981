// Package handler implements the game-facing side of the protocol: message
// handlers, the warp flow, chat routing, and map editing. Everything here runs
// on the game loop goroutine.
package handler

import (
	"time"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/config"
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/persist"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/scripting"
	"github.com/emberworld/server/internal/world"
)

// Conn is the per-connection surface handlers may touch. net.Session
// implements it; tests substitute a recording fake.
type Conn interface {
	SessionID() uint64
	SetState(protocol.SessionState)
	SetIdentity(username, characterName string)
	SendMessage(msg protocol.Message)
	Close()
}

// Deps bundles everything message handlers need. One instance is shared by
// all handlers and systems for the life of the server.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.State
	Stores    *persist.Stores
	Scripting *scripting.Engine

	// Now is the clock used for map cache keys; injectable for tests.
	Now func() time.Time
}

// RegisterAll wires every client message to its handler, gated by the session
// states in which it is legal.
func RegisterAll(reg *protocol.Registry, d *Deps) {
	connected := []protocol.SessionState{protocol.StateConnected}
	playing := []protocol.SessionState{protocol.StatePlaying}

	reg.Register(protocol.TypeCreateAccount, connected, handle(d.HandleCreateAccount))
	reg.Register(protocol.TypeLogin, connected, handle(d.HandleLogin))

	reg.Register(protocol.TypeInput, playing, handle(d.HandleInput))
	reg.Register(protocol.TypeChatMessage, playing, handle(d.HandleChatMessage))
	reg.Register(protocol.TypeRequestMap, playing, handle(d.HandleRequestMap))
	reg.Register(protocol.TypeSaveMap, playing, handle(d.HandleSaveMap))
	reg.Register(protocol.TypeWarp, playing, handle(d.HandleWarp))
	reg.Register(protocol.TypeMapEditor, playing, handle(d.HandleMapEditor))
}

func handle[T protocol.Message](fn func(Conn, T)) protocol.HandlerFunc {
	return func(sess any, msg protocol.Message) {
		c, ok := sess.(Conn)
		if !ok {
			return
		}
		if m, ok := msg.(T); ok {
			fn(c, m)
		}
	}
}

// player resolves the in-world player behind a connection.
func (d *Deps) player(c Conn) *world.Player {
	return d.World.GetBySession(c.SessionID())
}

// SendToMap delivers a message to every player on a map, minus any excluded
// entities.
func (d *Deps) SendToMap(mapID game.MapID, msg protocol.Message, exclude ...game.Entity) {
	d.World.Each(func(p *world.Player) {
		if p.Map != mapID {
			return
		}
		for _, id := range exclude {
			if p.ID == id {
				return
			}
		}
		p.Session.SendMessage(msg)
	})
}

// Broadcast delivers a message to every player in the world.
func (d *Deps) Broadcast(msg protocol.Message) {
	d.World.Each(func(p *world.Player) {
		p.Session.SendMessage(msg)
	})
}

// BroadcastExcept delivers a message to everyone but one entity.
func (d *Deps) BroadcastExcept(msg protocol.Message, exclude game.Entity) {
	d.World.Each(func(p *world.Player) {
		if p.ID != exclude {
			p.Session.SendMessage(msg)
		}
	})
}

func (d *Deps) startPosition() game.Vec2 {
	return game.V(d.Config.Game.StartX, d.Config.Game.StartY)
}
