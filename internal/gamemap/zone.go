package gamemap

import (
	"fmt"

	"github.com/emberworld/server/internal/game"
)

// ZoneKind discriminates the zone payload.
type ZoneKind string

const (
	ZoneBlocked ZoneKind = "blocked"
	ZoneWarp    ZoneKind = "warp"
)

// WarpTarget names where a warp zone sends an entity. Direction is optional;
// when set the entity faces that way on arrival.
type WarpTarget struct {
	Map       game.MapID      `json:"map" yaml:"map"`
	Position  game.Vec2       `json:"position" yaml:"position"`
	Direction *game.Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// ZoneData is the payload of a zone: either plain blocking or a warp.
type ZoneData struct {
	Kind ZoneKind    `json:"kind" yaml:"kind"`
	Warp *WarpTarget `json:"warp,omitempty" yaml:"warp,omitempty"`
}

func (d ZoneData) Validate() error {
	switch d.Kind {
	case ZoneBlocked:
		if d.Warp != nil {
			return fmt.Errorf("blocked zone carries a warp target")
		}
	case ZoneWarp:
		if d.Warp == nil {
			return fmt.Errorf("warp zone missing target")
		}
	default:
		return fmt.Errorf("unknown zone kind %q", d.Kind)
	}
	return nil
}

// Zone is an axis-aligned region of a map with attached behavior. Zones use
// pixel coordinates, not tile coordinates, so they can cover partial tiles.
type Zone struct {
	Box  game.Box2 `json:"box" yaml:"box"`
	Data ZoneData  `json:"data" yaml:"data"`
}

func BlockedZone(box game.Box2) Zone {
	return Zone{Box: box, Data: ZoneData{Kind: ZoneBlocked}}
}

func WarpZone(box game.Box2, target WarpTarget) Zone {
	return Zone{Box: box, Data: ZoneData{Kind: ZoneWarp, Warp: &target}}
}
