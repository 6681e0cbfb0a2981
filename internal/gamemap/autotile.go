package gamemap

// Autotiling carves each tile into four half-tile quadrants and picks a
// sub-texture per quadrant from an 8-neighbor bitmask. A neighbor counts when
// it is an autotile with the same atlas texture; cells past the map edge
// count as matching so borders render closed.

// neighborOffsets orders the 8 neighbors; bit i of the mask is set when the
// neighbor at offset i matches.
var neighborOffsets = [8][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
	{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
}

const (
	maskN  = 1 << 0
	maskE  = 1 << 1
	maskS  = 1 << 2
	maskW  = 1 << 3
	maskNE = 1 << 4
	maskSE = 1 << 5
	maskSW = 1 << 6
	maskNW = 1 << 7
)

// AutoTile holds the four resolved quadrant coordinates for one cell, in
// half-tile units: top-left, top-right, bottom-left, bottom-right.
type AutoTile struct {
	Quadrants [4]Coord
}

// The quadrant tables. Each quadrant only cares about its three adjacent
// neighbors; the offsets index the standard RPG Maker style 2x3 autotile
// block, in half tiles relative to twice the authored texture coordinate.

func quadrantA(neighbors uint8) Coord {
	if neighbors == 0 {
		return Coord{0, 0}
	}
	switch neighbors & (maskN | maskW | maskNW) {
	case maskNW, 0:
		return Coord{0, 2}
	case maskN, maskN | maskNW:
		return Coord{0, 4}
	case maskW, maskW | maskNW:
		return Coord{2, 2}
	case maskN | maskW:
		return Coord{2, 0}
	default: // maskN | maskW | maskNW
		return Coord{2, 4}
	}
}

func quadrantB(neighbors uint8) Coord {
	if neighbors == 0 {
		return Coord{1, 0}
	}
	switch neighbors & (maskN | maskE | maskNE) {
	case maskNE, 0:
		return Coord{3, 2}
	case maskN, maskN | maskNE:
		return Coord{3, 4}
	case maskE, maskE | maskNE:
		return Coord{1, 2}
	case maskN | maskE:
		return Coord{3, 0}
	default: // maskN | maskE | maskNE
		return Coord{1, 4}
	}
}

func quadrantC(neighbors uint8) Coord {
	if neighbors == 0 {
		return Coord{0, 1}
	}
	switch neighbors & (maskS | maskW | maskSW) {
	case maskSW, 0:
		return Coord{0, 5}
	case maskS, maskS | maskSW:
		return Coord{0, 3}
	case maskW, maskW | maskSW:
		return Coord{2, 5}
	case maskS | maskW:
		return Coord{2, 1}
	default: // maskS | maskW | maskSW
		return Coord{2, 3}
	}
}

func quadrantD(neighbors uint8) Coord {
	if neighbors == 0 {
		return Coord{1, 1}
	}
	switch neighbors & (maskS | maskE | maskSE) {
	case maskSE, 0:
		return Coord{3, 5}
	case maskS, maskS | maskSE:
		return Coord{3, 3}
	case maskE, maskE | maskSE:
		return Coord{1, 5}
	case maskS | maskE:
		return Coord{3, 1}
	default: // maskS | maskE | maskSE
		return Coord{1, 3}
	}
}

// NewAutoTile resolves the quadrants for a tile with the given authored
// texture and neighbor mask.
func NewAutoTile(texture Coord, neighbors uint8) *AutoTile {
	base := Coord{texture.X * 2, texture.Y * 2}
	return &AutoTile{
		Quadrants: [4]Coord{
			base.Add(quadrantA(neighbors)),
			base.Add(quadrantB(neighbors)),
			base.Add(quadrantC(neighbors)),
			base.Add(quadrantD(neighbors)),
		},
	}
}

// UpdateAutotileCache rebuilds the derived quadrant cache for every layer
// from the current tile grids. Call after any tile edit or resize; the cache
// is never persisted or sent over the wire.
func (m *Map) UpdateAutotileCache() {
	if m.autotiles == nil {
		m.autotiles = make(map[Layer][]*AutoTile, LayerCount)
	}

	for _, layer := range Layers {
		grid := m.Layers[layer]
		if grid == nil {
			continue
		}

		cache := make([]*AutoTile, grid.Width*grid.Height)
		for y := 0; y < grid.Height; y++ {
			for x := 0; x < grid.Width; x++ {
				tile := grid.At(x, y)
				if tile == nil || !tile.Autotile {
					continue
				}
				cache[y*grid.Width+x] = NewAutoTile(tile.Texture, autotileNeighbors(grid, x, y, tile.Texture))
			}
		}
		m.autotiles[layer] = cache
	}
}

// Autotile returns the cached quadrants for a cell, nil when the cell is not
// an autotile or the cache has not been built.
func (m *Map) Autotile(layer Layer, x, y int) *AutoTile {
	grid := m.Layers[layer]
	if grid == nil || !grid.InBounds(x, y) {
		return nil
	}
	cache := m.autotiles[layer]
	if cache == nil {
		return nil
	}
	return cache[y*grid.Width+x]
}

func autotileNeighbors(grid *TileGrid, x, y int, texture Coord) uint8 {
	var neighbors uint8
	for i, offset := range neighborOffsets {
		nx, ny := x+offset[0], y+offset[1]
		if !grid.InBounds(nx, ny) {
			// Out of map reads as matching so edges look closed.
			neighbors |= 1 << i
			continue
		}
		if t := grid.At(nx, ny); t != nil && t.Autotile && t.Texture == texture {
			neighbors |= 1 << i
		}
	}
	return neighbors
}
