package gamemap

// Coord addresses a tile in the tileset atlas, in whole tiles.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Coord) Add(o Coord) Coord { return Coord{c.X + o.X, c.Y + o.Y} }

// TileAnimation describes a horizontally laid out animation strip. The frame
// index is always derived from the current time, never stored.
type TileAnimation struct {
	Frames   int     `json:"frames" yaml:"frames"`
	Duration float64 `json:"duration" yaml:"duration"`
	Bouncy   bool    `json:"bouncy" yaml:"bouncy"`
}

// TotalFrames is the length of one full cycle; bouncy strips play forward
// then backward without repeating the endpoints.
func (a TileAnimation) TotalFrames() int {
	if a.Bouncy {
		return a.Frames*2 - 1
	}
	return a.Frames
}

// Tile is one authored cell of a layer grid.
type Tile struct {
	Texture   Coord          `json:"texture" yaml:"texture"`
	Autotile  bool           `json:"autotile" yaml:"autotile"`
	Animation *TileAnimation `json:"animation,omitempty" yaml:"animation,omitempty"`
}

// TileGrid is a dense row-major grid of optional tiles.
type TileGrid struct {
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Cells  []*Tile `json:"cells" yaml:"cells"`
}

func NewTileGrid(width, height int) *TileGrid {
	return &TileGrid{
		Width:  width,
		Height: height,
		Cells:  make([]*Tile, width*height),
	}
}

func (g *TileGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the tile at (x, y), nil when empty or out of bounds.
func (g *TileGrid) At(x, y int) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.Cells[y*g.Width+x]
}

// Set replaces the tile at (x, y), returning the previous one.
func (g *TileGrid) Set(x, y int, tile *Tile) *Tile {
	if !g.InBounds(x, y) {
		return nil
	}
	prev := g.Cells[y*g.Width+x]
	g.Cells[y*g.Width+x] = tile
	return prev
}

// Fill sets every cell to a copy of tile (or clears when tile is nil).
func (g *TileGrid) Fill(tile *Tile) {
	for i := range g.Cells {
		if tile == nil {
			g.Cells[i] = nil
		} else {
			t := *tile
			g.Cells[i] = &t
		}
	}
}
