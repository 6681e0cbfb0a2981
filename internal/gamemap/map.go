package gamemap

import (
	"fmt"

	"github.com/emberworld/server/internal/game"
)

// DefaultWidth and DefaultHeight size freshly created maps, in tiles.
const (
	DefaultWidth  = 20
	DefaultHeight = 15
)

// BoundaryWarps names the neighbor map, if any, past each edge. Pushing past
// an edge with no warp is an invalid move.
type BoundaryWarps struct {
	North *game.MapID `json:"north,omitempty" yaml:"north,omitempty"`
	East  *game.MapID `json:"east,omitempty" yaml:"east,omitempty"`
	South *game.MapID `json:"south,omitempty" yaml:"south,omitempty"`
	West  *game.MapID `json:"west,omitempty" yaml:"west,omitempty"`
}

// Edge returns the neighbor past the given edge.
func (w BoundaryWarps) Edge(d game.Direction) *game.MapID {
	switch d {
	case game.North:
		return w.North
	case game.East:
		return w.East
	case game.South:
		return w.South
	default:
		return w.West
	}
}

// Settings holds the authored metadata of a map. CacheKey is bumped to the
// current unix time on every save so clients can tell a stale cached copy
// from the live one.
type Settings struct {
	Name     string        `json:"name" yaml:"name"`
	Tileset  string        `json:"tileset" yaml:"tileset"`
	Music    string        `json:"music,omitempty" yaml:"music,omitempty"`
	Warps    BoundaryWarps `json:"warps" yaml:"warps"`
	CacheKey uint64        `json:"cacheKey" yaml:"cacheKey"`
}

func DefaultSettings() Settings {
	return Settings{Tileset: "default.png"}
}

// Map is one world area: a fixed stack of tile layers over a single grid plus
// its zones and settings. Width and Height are in tiles.
type Map struct {
	ID       game.MapID          `json:"id" yaml:"id"`
	Width    int                 `json:"width" yaml:"width"`
	Height   int                 `json:"height" yaml:"height"`
	Settings Settings            `json:"settings" yaml:"settings"`
	Layers   map[Layer]*TileGrid `json:"layers" yaml:"layers"`
	Zones    []Zone              `json:"zones" yaml:"zones"`

	// Derived per layer from the tile grids, never persisted.
	autotiles map[Layer][]*AutoTile
}

// New creates an empty map with all five layers allocated.
func New(id game.MapID, width, height int) *Map {
	layers := make(map[Layer]*TileGrid, LayerCount)
	for _, layer := range Layers {
		layers[layer] = NewTileGrid(width, height)
	}
	return &Map{
		ID:       id,
		Width:    width,
		Height:   height,
		Settings: DefaultSettings(),
		Layers:   layers,
	}
}

// Validate checks the structural invariant: exactly the five known layers,
// each grid matching the map dimensions, and every zone well formed.
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map %v: invalid size %dx%d", m.ID, m.Width, m.Height)
	}
	if len(m.Layers) != LayerCount {
		return fmt.Errorf("map %v: has %d layers, want %d", m.ID, len(m.Layers), LayerCount)
	}
	for _, layer := range Layers {
		grid, ok := m.Layers[layer]
		if !ok || grid == nil {
			return fmt.Errorf("map %v: missing layer %v", m.ID, layer)
		}
		if grid.Width != m.Width || grid.Height != m.Height {
			return fmt.Errorf("map %v: layer %v is %dx%d, want %dx%d",
				m.ID, layer, grid.Width, grid.Height, m.Width, m.Height)
		}
		if len(grid.Cells) != m.Width*m.Height {
			return fmt.Errorf("map %v: layer %v has %d cells, want %d",
				m.ID, layer, len(grid.Cells), m.Width*m.Height)
		}
	}
	for i, zone := range m.Zones {
		if err := zone.Data.Validate(); err != nil {
			return fmt.Errorf("map %v: zone %d: %w", m.ID, i, err)
		}
	}
	return nil
}

// WorldSize is the map extent in pixels.
func (m *Map) WorldSize() game.Vec2 {
	return game.V(float64(m.Width)*game.TileSize, float64(m.Height)*game.TileSize)
}

// Bounds is the map extent as a box anchored at the origin.
func (m *Map) Bounds() game.Box2 {
	return game.BoxFromSize(m.WorldSize())
}

// Contains reports whether an entity footprint lies fully inside the map.
func (m *Map) Contains(box game.Box2) bool {
	return m.Bounds().ContainsBox(box)
}

// BlockedAt reports whether the footprint overlaps any blocked zone.
func (m *Map) BlockedAt(box game.Box2) bool {
	for i := range m.Zones {
		zone := &m.Zones[i]
		if zone.Data.Kind == ZoneBlocked && zone.Box.Intersects(box) {
			return true
		}
	}
	return false
}

// WarpAt returns the target of the first warp zone the footprint overlaps.
func (m *Map) WarpAt(box game.Box2) (WarpTarget, bool) {
	for i := range m.Zones {
		zone := &m.Zones[i]
		if zone.Data.Kind == ZoneWarp && zone.Box.Intersects(box) {
			return *zone.Data.Warp, true
		}
	}
	return WarpTarget{}, false
}

// OutOfBoundsDirection reports which edge the footprint at position touches
// or crosses, checked north, south, west, east in that order.
func (m *Map) OutOfBoundsDirection(position game.Vec2) (game.Direction, bool) {
	bounds := m.Bounds()
	sprite := game.CollisionBox(position)

	switch {
	case sprite.Min.Y <= bounds.Min.Y:
		return game.North, true
	case sprite.Max.Y >= bounds.Max.Y:
		return game.South, true
	case sprite.Min.X <= bounds.Min.X:
		return game.West, true
	case sprite.Max.X >= bounds.Max.X:
		return game.East, true
	default:
		return game.South, false
	}
}

// OppositeEdgePosition places an entity that left a neighbor map through the
// given edge onto this map's opposite edge. The axis along the edge carries
// over from the old position so travel lines up between maps.
func (m *Map) OppositeEdgePosition(exit game.Direction, position game.Vec2) game.Vec2 {
	bounds := m.Bounds()
	switch exit {
	case game.North:
		return game.V(position.X, bounds.Max.Y-game.SpriteSize)
	case game.South:
		return game.V(position.X, -game.SpriteSize/2)
	case game.West:
		return game.V(bounds.Max.X-game.SpriteSize, position.Y)
	default:
		return game.V(0, position.Y)
	}
}

// ClampToBounds pushes a footprint origin back inside the map.
func (m *Map) ClampToBounds(position game.Vec2) game.Vec2 {
	bounds := m.Bounds()
	sprite := game.CollisionBox(position)

	if sprite.Min.X < bounds.Min.X {
		position.X += bounds.Min.X - sprite.Min.X
	} else if sprite.Max.X > bounds.Max.X {
		position.X -= sprite.Max.X - bounds.Max.X
	}
	if sprite.Min.Y < bounds.Min.Y {
		position.Y += bounds.Min.Y - sprite.Min.Y
	} else if sprite.Max.Y > bounds.Max.Y {
		position.Y -= sprite.Max.Y - bounds.Max.Y
	}
	return position
}

// Resize changes the map dimensions, keeping the overlapping region of every
// layer and dropping zones whose origin falls outside the new bounds. A zone
// that merely straddles the boundary keeps its full extent.
func (m *Map) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("map %v: invalid resize to %dx%d", m.ID, width, height)
	}

	for _, layer := range Layers {
		old := m.Layers[layer]
		next := NewTileGrid(width, height)
		if old != nil {
			for y := 0; y < height && y < old.Height; y++ {
				for x := 0; x < width && x < old.Width; x++ {
					next.Set(x, y, old.At(x, y))
				}
			}
		}
		m.Layers[layer] = next
	}

	m.Width = width
	m.Height = height

	bounds := m.Bounds()
	kept := m.Zones[:0]
	for _, zone := range m.Zones {
		if bounds.ContainsPoint(zone.Box.Min) {
			kept = append(kept, zone)
		}
	}
	m.Zones = kept

	m.UpdateAutotileCache()
	return nil
}
