package gamemap

import "testing"

func autotileMap(t *testing.T, width, height int, cells [][2]int) *Map {
	t.Helper()
	m := New(1, width, height)
	for _, c := range cells {
		m.Layers[Ground].Set(c[0], c[1], &Tile{Texture: Coord{2, 3}, Autotile: true})
	}
	m.UpdateAutotileCache()
	return m
}

func TestAutotileLoneTile(t *testing.T) {
	// A lone tile away from the edge has no matching neighbors at all, which
	// selects the standalone 2x2 block at the texture base.
	m := autotileMap(t, 5, 5, [][2]int{{2, 2}})

	at := m.Autotile(Ground, 2, 2)
	if at == nil {
		t.Fatal("no cache entry for autotile cell")
	}
	base := Coord{4, 6} // texture (2,3) doubled
	want := [4]Coord{
		base.Add(Coord{0, 0}),
		base.Add(Coord{1, 0}),
		base.Add(Coord{0, 1}),
		base.Add(Coord{1, 1}),
	}
	if at.Quadrants != want {
		t.Fatalf("quadrants = %v, want %v", at.Quadrants, want)
	}
}

func TestAutotileCenterOfBlock(t *testing.T) {
	// Fully surrounded by matching tiles: every quadrant picks the interior
	// sub-texture.
	var cells [][2]int
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			cells = append(cells, [2]int{x, y})
		}
	}
	m := autotileMap(t, 5, 5, cells)

	at := m.Autotile(Ground, 2, 2)
	if at == nil {
		t.Fatal("no cache entry for center cell")
	}
	base := Coord{4, 6}
	want := [4]Coord{
		base.Add(Coord{2, 4}),
		base.Add(Coord{1, 4}),
		base.Add(Coord{2, 3}),
		base.Add(Coord{1, 3}),
	}
	if at.Quadrants != want {
		t.Fatalf("quadrants = %v, want %v", at.Quadrants, want)
	}
}

func TestAutotileEdgeCountsAsMatching(t *testing.T) {
	// A tile in the map corner treats the out-of-bounds neighbors as matching,
	// so a 1x1 map renders the same as the center of a large block.
	m := autotileMap(t, 1, 1, [][2]int{{0, 0}})

	corner := m.Autotile(Ground, 0, 0)
	if corner == nil {
		t.Fatal("no cache entry for corner cell")
	}

	var cells [][2]int
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			cells = append(cells, [2]int{x, y})
		}
	}
	big := autotileMap(t, 3, 3, cells)
	center := big.Autotile(Ground, 1, 1)

	if corner.Quadrants != center.Quadrants {
		t.Fatalf("corner quadrants %v differ from surrounded quadrants %v",
			corner.Quadrants, center.Quadrants)
	}
}

func TestAutotileIgnoresDifferentTexture(t *testing.T) {
	m := New(1, 5, 5)
	m.Layers[Ground].Set(2, 2, &Tile{Texture: Coord{2, 3}, Autotile: true})
	m.Layers[Ground].Set(3, 2, &Tile{Texture: Coord{9, 9}, Autotile: true})
	m.Layers[Ground].Set(2, 1, &Tile{Texture: Coord{2, 3}}) // not an autotile
	m.UpdateAutotileCache()

	at := m.Autotile(Ground, 2, 2)
	lone := NewAutoTile(Coord{2, 3}, 0)
	if at.Quadrants != lone.Quadrants {
		t.Fatalf("mismatched neighbors affected quadrants: %v", at.Quadrants)
	}
}

func TestAutotileCacheIsPerLayer(t *testing.T) {
	m := New(1, 4, 4)
	m.Layers[Ground].Set(1, 1, &Tile{Texture: Coord{0, 0}, Autotile: true})
	m.Layers[Fringe].Set(2, 2, &Tile{Texture: Coord{0, 0}, Autotile: true})
	m.UpdateAutotileCache()

	if m.Autotile(Ground, 1, 1) == nil {
		t.Fatal("ground cache missing")
	}
	if m.Autotile(Ground, 2, 2) != nil {
		t.Fatal("ground cache has entry for fringe-only cell")
	}
	if m.Autotile(Fringe, 2, 2) == nil {
		t.Fatal("fringe cache missing")
	}
}

func TestAutotileDeterministic(t *testing.T) {
	m := autotileMap(t, 4, 4, [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 3}})
	first := make(map[[2]int]AutoTile)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if at := m.Autotile(Ground, x, y); at != nil {
				first[[2]int{x, y}] = *at
			}
		}
	}

	for i := 0; i < 10; i++ {
		m.UpdateAutotileCache()
		for pos, want := range first {
			got := m.Autotile(Ground, pos[0], pos[1])
			if got == nil || got.Quadrants != want.Quadrants {
				t.Fatalf("rebuild %d changed cell %v", i, pos)
			}
		}
	}
}

func TestTileAnimationTotalFrames(t *testing.T) {
	plain := TileAnimation{Frames: 4, Duration: 1}
	if got := plain.TotalFrames(); got != 4 {
		t.Fatalf("plain TotalFrames = %d", got)
	}
	bouncy := TileAnimation{Frames: 4, Duration: 1, Bouncy: true}
	if got := bouncy.TotalFrames(); got != 7 {
		t.Fatalf("bouncy TotalFrames = %d", got)
	}
}
