package persist

import (
	"testing"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/gamemap"
)

func openTestStores(t *testing.T) *Stores {
	t.Helper()
	stores, err := Open(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return stores
}

func TestPlayerCreateLoadRoundTrip(t *testing.T) {
	stores := openTestStores(t)

	rec, err := stores.Players.Create("Alice", "hunter2", "Alice the Brave", &PlayerRecord{
		Map:      game.DefaultMap,
		Position: game.V(100, 100),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.PasswordHash == "hunter2" {
		t.Fatal("password stored in the clear")
	}

	loaded, err := stores.Players.Load("ALICE") // case folds to the same account
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Fatal("created account not found")
	}
	if loaded.Name != "Alice the Brave" || loaded.Position != game.V(100, 100) {
		t.Fatalf("loaded %+v", loaded)
	}

	if !stores.Players.ValidatePassword(loaded.PasswordHash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if stores.Players.ValidatePassword(loaded.PasswordHash, "wrong") {
		t.Fatal("wrong password accepted")
	}

	if _, err := stores.Players.Create("alice", "x", "Other", nil); err != ErrExists {
		t.Fatalf("duplicate create returned %v", err)
	}
}

func TestPlayerLoadMissing(t *testing.T) {
	stores := openTestStores(t)

	rec, err := stores.Players.Load("nobody")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Fatalf("missing account loaded %+v", rec)
	}
	if stores.Players.ValidateMissing("anything") {
		t.Fatal("missing account validated")
	}
}

func TestUsernameValidation(t *testing.T) {
	cases := []struct {
		username string
		ok       bool
	}{
		{"alice", true},
		{"al", false},
		{"a_b-c42", true},
		{"../../etc/passwd", false},
		{"white space", false},
		{"UPPER", false}, // validated after normalization
	}
	for _, tc := range cases {
		if got := ValidUsername(tc.username); got != tc.ok {
			t.Errorf("ValidUsername(%q) = %v, want %v", tc.username, got, tc.ok)
		}
	}

	if got := NormalizeUsername("  ALICE "); got != "alice" {
		t.Fatalf("NormalizeUsername = %q", got)
	}
}

func TestNameCacheReserveAndRebuild(t *testing.T) {
	dir := t.TempDir()
	stores, err := Open(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := stores.Players.Create("bob", "pw", "Bob", nil); err != nil {
		t.Fatal(err)
	}
	if err := stores.Names.Reserve("Bob", "bob"); err != nil {
		t.Fatal(err)
	}
	if !stores.Names.Taken("bob") { // folded comparison
		t.Fatal("reserved name not taken")
	}
	if err := stores.Names.Reserve("BOB", "eve"); err != ErrExists {
		t.Fatalf("duplicate reserve returned %v", err)
	}

	// Reopen with the index removed: it rebuilds from the player files.
	reopened, err := Open(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.Names.Taken("bob") {
		t.Fatal("name cache survived reopen")
	}
}

func TestMapStoreRoundTrip(t *testing.T) {
	stores := openTestStores(t)

	m := gamemap.New(3, 8, 6)
	m.Settings.Name = "Cave"
	m.Settings.CacheKey = 42
	m.Layers[gamemap.Ground].Set(1, 1, &gamemap.Tile{Texture: gamemap.Coord{X: 2, Y: 2}, Autotile: true})
	m.Zones = append(m.Zones, gamemap.BlockedZone(game.Box2{Min: game.V(0, 0), Max: game.V(48, 48)}))

	if err := stores.Maps.Save(m); err != nil {
		t.Fatal(err)
	}

	loaded, err := stores.Maps.Load(3)
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil {
		t.Fatal("saved map not found")
	}
	if loaded.Settings.Name != "Cave" || loaded.Settings.CacheKey != 42 {
		t.Fatalf("settings %+v", loaded.Settings)
	}
	tile := loaded.Layers[gamemap.Ground].At(1, 1)
	if tile == nil || !tile.Autotile {
		t.Fatalf("tile %+v", tile)
	}
	if loaded.Autotile(gamemap.Ground, 1, 1) == nil {
		t.Fatal("autotile cache not rebuilt on load")
	}
	if len(loaded.Zones) != 1 {
		t.Fatalf("zones %v", loaded.Zones)
	}

	missing, err := stores.Maps.Load(99)
	if err != nil || missing != nil {
		t.Fatalf("missing map load = %v, %v", missing, err)
	}

	all, err := stores.Maps.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[3] == nil {
		t.Fatalf("LoadAll = %v", all)
	}
}

func TestMapStoreRejectsInvalid(t *testing.T) {
	stores := openTestStores(t)

	m := gamemap.New(4, 8, 6)
	m.Layers[gamemap.Mask] = gamemap.NewTileGrid(1, 1)
	if err := stores.Maps.Save(m); err == nil {
		t.Fatal("invalid map saved")
	}
}
