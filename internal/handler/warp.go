package handler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/protocol"
	"github.com/emberworld/server/internal/world"
)

// Warp moves a player onto a map, running the full visibility exchange. The
// same flow covers the initial join, editor warps, boundary crossings, and
// warp zones; initialJoin only skips the removal notice since the mover was
// not visible anywhere yet.
//
// pos forces an exact arrival point; nil keeps the current position, clamped
// into the destination. dir forces a facing and stops the mover.
func (d *Deps) Warp(p *world.Player, target game.MapID, pos *game.Vec2, dir *game.Direction, initialJoin bool) error {
	dest, err := d.World.EnsureMap(target)
	if err != nil {
		return fmt.Errorf("warp to map %v: %w", target, err)
	}

	if !initialJoin {
		d.SendToMap(p.Map, protocol.PlayerData{ID: p.ID}, p.ID)
	}

	p.Map = target
	p.Dirty = true

	p.Session.SendMessage(protocol.ChangeMap{Map: target, CacheKey: dest.Settings.CacheKey})

	// The mover learns about everyone already there, then everyone there
	// (mover included) gets the mover's data.
	d.World.Each(func(other *world.Player) {
		if other == p || other.Map != target {
			return
		}
		snap := other.Protocol()
		p.Session.SendMessage(protocol.PlayerData{ID: other.ID, Player: &snap})
	})

	snap := p.Protocol()
	d.SendToMap(target, protocol.PlayerData{ID: p.ID, Player: &snap})

	if pos != nil {
		p.Position = *pos
	} else {
		p.Position = dest.ClampToBounds(p.Position)
	}
	if dir != nil {
		p.Direction = *dir
		p.Velocity = game.Vec2{}
	}

	if err := d.Stores.Players.Save(p.Record()); err != nil {
		d.Log.Error("player save on warp failed",
			zap.String("username", p.Username),
			zap.Error(err),
		)
	} else {
		p.Dirty = false
	}

	d.SendToMap(target, protocol.PlayerState{State: p.State()})
	return nil
}

// ApplyWarps checks a candidate movement state against boundary and zone warp
// triggers and runs the warp flow when one fires. The candidate is updated to
// the post-warp state. Reports whether a warp happened.
func (d *Deps) ApplyWarps(p *world.Player, next *game.State) (bool, error) {
	m := d.World.Map(next.Map)
	if m == nil {
		return false, nil
	}

	if exit, out := m.OutOfBoundsDirection(next.Position); out {
		if neighbor := m.Settings.Warps.Edge(exit); neighbor != nil {
			dest, err := d.World.EnsureMap(*neighbor)
			if err != nil {
				return false, err
			}
			arrive := dest.OppositeEdgePosition(exit, next.Position)

			// Sync the candidate kinematics onto the player first so the
			// warp broadcast carries the latest sequence and velocity.
			p.ApplyState(*next)
			if err := d.Warp(p, *neighbor, &arrive, nil, false); err != nil {
				return false, err
			}
			next.Map = p.Map
			next.Position = p.Position
			return true, nil
		}
		// No neighbor past this edge: the step stays out of bounds and the
		// movement validity check rejects it.
	}

	if t, ok := m.WarpAt(game.CollisionBox(next.Position)); ok {
		p.ApplyState(*next)
		if err := d.Warp(p, t.Map, &t.Position, t.Direction, false); err != nil {
			return false, err
		}
		next.Map = p.Map
		next.Position = p.Position
		if t.Direction != nil {
			next.Direction = *t.Direction
			next.Velocity = game.Vec2{}
		}
		return true, nil
	}

	return false, nil
}

// HandleWarp is the editor command to jump straight to a map. Arrival always
// faces south and stands still; the editor UI gets a fresh snapshot for the
// new map.
func (d *Deps) HandleWarp(c Conn, msg protocol.Warp) {
	p := d.player(c)
	if p == nil {
		return
	}
	dir := game.South
	if err := d.Warp(p, msg.Map, msg.Position, &dir, false); err != nil {
		d.Log.Error("warp failed",
			zap.String("username", p.Username),
			zap.Uint64("map", uint64(msg.Map)),
			zap.Error(err),
		)
		c.SendMessage(protocol.ChatLog{Channel: protocol.ChannelError, Text: "Warp failed."})
		return
	}
	if p.Flags.InMapEditor {
		d.sendMapEditor(p)
	}
}
