package system

import (
	"time"

	coresys "github.com/emberworld/server/internal/core/system"
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/handler"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/world"
)

// BroadcastSystem publishes each entity's state to everyone else on its map,
// throttled per entity to the broadcast interval. Runs before the output
// flush within the same phase. Phase 2 (Output).
type BroadcastSystem struct {
	deps     *handler.Deps
	clock    func() float64 // monotonic seconds
	lastSent map[game.Entity]float64
}

// NewBroadcastSystem builds the broadcaster. A nil clock uses wall-clock
// monotonic time; tests inject their own.
func NewBroadcastSystem(deps *handler.Deps, clock func() float64) *BroadcastSystem {
	if clock == nil {
		start := time.Now()
		clock = func() float64 { return time.Since(start).Seconds() }
	}
	return &BroadcastSystem{
		deps:     deps,
		clock:    clock,
		lastSent: make(map[game.Entity]float64),
	}
}

func (s *BroadcastSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *BroadcastSystem) Update(_ time.Duration) {
	now := s.clock()

	s.deps.World.Each(func(p *world.Player) {
		if last, ok := s.lastSent[p.ID]; ok && now-last < game.BroadcastInterval {
			return
		}
		s.lastSent[p.ID] = now
		// Never echoed to the entity itself; its own client is ahead of us.
		s.deps.SendToMap(p.Map, protocol.PlayerState{State: p.State()}, p.ID)
	})

	if len(s.lastSent) > s.deps.World.Count() {
		for id := range s.lastSent {
			if s.deps.World.GetByEntity(id) == nil {
				delete(s.lastSent, id)
			}
		}
	}
}
