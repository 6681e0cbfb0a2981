package world

import (
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/persist"
	"github.com/emberworld/server/internal/protocol"
)

// Sender is the slice of the transport a handler may touch for one player.
// Implemented by net.Session; tests substitute a recording fake.
type Sender interface {
	SendMessage(msg protocol.Message)
	Close()
}

// maxPendingInputs caps the per-player input queue. A client flooding inputs
// faster than the tick rate loses its oldest steps; the sequence echo lets it
// resubmit from where the server actually is.
const maxPendingInputs = 64

// Player holds in-memory data for a player currently in-world.
// Accessed only from the game loop goroutine, so no locks are needed.
type Player struct {
	SessionID uint64
	Session   Sender

	ID           game.Entity
	Username     string
	PasswordHash string
	Name         string
	Sprite       uint32

	Position     game.Vec2
	Velocity     game.Vec2
	Direction    game.Direction
	Map          game.MapID
	MaxSpeed     float64
	LastSequence uint64

	Flags protocol.PlayerFlags

	// Inputs received this tick, replayed in order by the movement step.
	Inputs []game.Input

	// Set when any persisted field changes; cleared after a successful save.
	Dirty bool
}

// NewPlayer builds the in-world form of a stored record.
func NewPlayer(sessionID uint64, sess Sender, id game.Entity, rec *persist.PlayerRecord) *Player {
	return &Player{
		SessionID:    sessionID,
		Session:      sess,
		ID:           id,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Name:         rec.Name,
		Sprite:       rec.Sprite,
		Position:     rec.Position,
		Direction:    rec.Direction,
		Map:          rec.Map,
		MaxSpeed:     game.RunSpeed,
	}
}

// QueueInput appends a movement input, dropping the oldest when full.
func (p *Player) QueueInput(in game.Input) {
	if len(p.Inputs) >= maxPendingInputs {
		copy(p.Inputs, p.Inputs[1:])
		p.Inputs = p.Inputs[:len(p.Inputs)-1]
	}
	p.Inputs = append(p.Inputs, in)
}

// State snapshots the kinematic fields for simulation and broadcast.
func (p *Player) State() game.State {
	return game.State{
		ID:           p.ID,
		Position:     p.Position,
		Velocity:     p.Velocity,
		Direction:    p.Direction,
		Map:          p.Map,
		MaxSpeed:     p.MaxSpeed,
		LastSequence: p.LastSequence,
	}
}

// ApplyState writes a simulated state back onto the player.
func (p *Player) ApplyState(st game.State) {
	p.Position = st.Position
	p.Velocity = st.Velocity
	p.Direction = st.Direction
	p.Map = st.Map
	p.MaxSpeed = st.MaxSpeed
	p.LastSequence = st.LastSequence
	p.Dirty = true
}

// Protocol builds the appearance snapshot sent to other clients.
func (p *Player) Protocol() protocol.Player {
	return protocol.Player{
		Name:      p.Name,
		Position:  p.Position,
		Velocity:  p.Velocity,
		Map:       p.Map,
		Sprite:    p.Sprite,
		Direction: p.Direction,
		Flags:     p.Flags,
	}
}

// Record builds the durable form for saving.
func (p *Player) Record() *persist.PlayerRecord {
	return &persist.PlayerRecord{
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
		Name:         p.Name,
		Sprite:       p.Sprite,
		Map:          p.Map,
		Position:     p.Position,
		Direction:    p.Direction,
	}
}
