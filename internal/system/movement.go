package system

import (
	"sort"
	"time"

	"go.uber.org/zap"

	coresys "github.com/emberworld/server/internal/core/system"
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/handler"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/world"
)

// MovementSystem replays queued inputs against the authoritative state.
// Each input is applied with the same integrator the client predicted with;
// a step that lands somewhere illegal is discarded whole and the client gets
// the authoritative state back to rewind to. Phase 1 (Update).
type MovementSystem struct {
	deps *handler.Deps
	log  *zap.Logger
}

func NewMovementSystem(deps *handler.Deps, log *zap.Logger) *MovementSystem {
	return &MovementSystem{deps: deps, log: log}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(_ time.Duration) {
	s.deps.World.Each(func(p *world.Player) {
		s.updatePlayer(p)
	})
}

func (s *MovementSystem) updatePlayer(p *world.Player) {
	if len(p.Inputs) == 0 {
		return
	}
	inputs := p.Inputs
	p.Inputs = p.Inputs[:0]

	// Frames can arrive out of order within a tick; sequence order is the
	// order the client simulated in.
	sort.SliceStable(inputs, func(i, j int) bool {
		return inputs[i].Sequence < inputs[j].Sequence
	})

	st := p.State()
	rejected := false

	for _, in := range inputs {
		if in.Sequence <= st.LastSequence {
			continue
		}

		next := st.FromInput(in, game.Friction)

		// Map editors place themselves freely: no collision, no triggers.
		if p.Flags.InMapEditor {
			st = next
			continue
		}

		warped, err := s.deps.ApplyWarps(p, &next)
		if err != nil {
			s.log.Error("warp during movement failed",
				zap.String("username", p.Username),
				zap.Error(err),
			)
			continue
		}
		if warped {
			st = next
			continue
		}

		if s.stepAllowed(p, next) {
			st = next
		} else {
			rejected = true
		}
	}

	p.ApplyState(st)

	if rejected {
		p.Session.SendMessage(protocol.PlayerState{State: p.State()})
	}
}

// stepAllowed validates a candidate state: inside the map, off blocked zones,
// not standing in another player.
func (s *MovementSystem) stepAllowed(p *world.Player, next game.State) bool {
	m := s.deps.World.Map(next.Map)
	if m == nil {
		return false
	}
	box := game.CollisionBox(next.Position)
	if !m.Contains(box) || m.BlockedAt(box) {
		return false
	}
	return !s.deps.World.OccupiedAt(next.Map, box, p.ID)
}
