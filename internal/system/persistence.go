package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/emberworld/server/internal/core/system"
	"github.com/emberworld/server/internal/handler"
	"github.com/emberworld/server/internal/world"
)

// PersistenceSystem autosaves dirty players on a fixed tick cadence. Warps
// and disconnects save eagerly on their own; this catches plain movement.
// Phase 3 (Persist).
type PersistenceSystem struct {
	deps     *handler.Deps
	interval int // ticks between autosave sweeps
	ticks    int
	log      *zap.Logger
}

func NewPersistenceSystem(deps *handler.Deps, interval int, log *zap.Logger) *PersistenceSystem {
	return &PersistenceSystem{deps: deps, interval: interval, log: log}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.ticks++
	if s.ticks < s.interval {
		return
	}
	s.ticks = 0

	s.deps.World.Each(func(p *world.Player) {
		if p.Dirty {
			s.save(p)
		}
	})
}

// SaveAll persists every online player, dirty or not. Called on shutdown.
func (s *PersistenceSystem) SaveAll() {
	s.deps.World.Each(func(p *world.Player) {
		s.save(p)
	})
}

func (s *PersistenceSystem) save(p *world.Player) {
	if err := s.deps.Stores.Players.Save(p.Record()); err != nil {
		s.log.Error("autosave failed",
			zap.String("username", p.Username),
			zap.Error(err),
		)
		return
	}
	p.Dirty = false
}
