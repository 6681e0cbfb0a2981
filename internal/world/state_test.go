package world

import (
	"testing"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/persist"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	stores, err := persist.Open(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	s := NewState(stores.Maps, zap.NewNop())
	if err := s.LoadMaps(); err != nil {
		t.Fatal(err)
	}
	return s
}

func addTestPlayer(s *State, sessionID uint64, name string, mapID game.MapID) *Player {
	p := NewPlayer(sessionID, nil, s.AllocateEntity(), &persist.PlayerRecord{
		Username: name,
		Name:     name,
		Map:      mapID,
	})
	s.AddPlayer(p)
	return p
}

func TestLoadMapsBootstrapsDefault(t *testing.T) {
	s := newTestState(t)

	m := s.Map(game.DefaultMap)
	if m == nil {
		t.Fatal("default map missing after fresh load")
	}
	if m.Width != 20 || m.Height != 15 {
		t.Fatalf("default map is %dx%d", m.Width, m.Height)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureMapCreatesLazily(t *testing.T) {
	s := newTestState(t)

	if s.Map(7) != nil {
		t.Fatal("map 7 exists before EnsureMap")
	}
	m, err := s.EnsureMap(7)
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != 7 {
		t.Fatalf("created map id %v", m.ID)
	}
	again, err := s.EnsureMap(7)
	if err != nil {
		t.Fatal(err)
	}
	if again != m {
		t.Fatal("EnsureMap minted a second copy")
	}
}

func TestPlayerRegistryLookups(t *testing.T) {
	s := newTestState(t)

	alice := addTestPlayer(s, 1, "alice", game.DefaultMap)
	bob := addTestPlayer(s, 2, "bob", 5)

	if alice.ID == bob.ID {
		t.Fatal("entity ids collide")
	}
	if s.GetBySession(1) != alice || s.GetByEntity(bob.ID) != bob {
		t.Fatal("lookup mismatch")
	}
	if s.GetByName("ALICE") != alice {
		t.Fatal("name lookup is not case folded")
	}
	if !s.IsOnline("bob") || s.IsOnline("carol") {
		t.Fatal("IsOnline wrong")
	}

	onDefault := s.PlayersOnMap(game.DefaultMap)
	if len(onDefault) != 1 || onDefault[0] != alice {
		t.Fatalf("PlayersOnMap = %v", onDefault)
	}

	removed := s.RemovePlayer(1)
	if removed != alice {
		t.Fatal("RemovePlayer returned wrong player")
	}
	if s.GetBySession(1) != nil || s.GetByEntity(alice.ID) != nil || s.GetByName("alice") != nil {
		t.Fatal("player still reachable after removal")
	}
	if s.Count() != 1 {
		t.Fatalf("Count = %d", s.Count())
	}
}

func TestOccupiedAt(t *testing.T) {
	s := newTestState(t)

	alice := addTestPlayer(s, 1, "alice", game.DefaultMap)
	alice.Position = game.V(96, 96)
	bob := addTestPlayer(s, 2, "bob", game.DefaultMap)
	bob.Position = game.V(120, 96) // overlapping footprints

	if !s.OccupiedAt(game.DefaultMap, game.CollisionBox(alice.Position), alice.ID) {
		t.Fatal("overlap with bob not detected")
	}
	// A footprint well away from everyone is clear.
	if s.OccupiedAt(game.DefaultMap, game.CollisionBox(game.V(400, 400)), 0) {
		t.Fatal("phantom occupancy")
	}
	// Different map never collides.
	if s.OccupiedAt(9, game.CollisionBox(alice.Position), 0) {
		t.Fatal("cross-map occupancy")
	}
}

func TestQueueInputDropsOldest(t *testing.T) {
	p := &Player{}
	for i := 0; i < maxPendingInputs+10; i++ {
		p.QueueInput(game.Input{Sequence: uint64(i)})
	}
	if len(p.Inputs) != maxPendingInputs {
		t.Fatalf("queue length %d", len(p.Inputs))
	}
	if p.Inputs[0].Sequence != 10 {
		t.Fatalf("oldest surviving sequence %d, want 10", p.Inputs[0].Sequence)
	}
	if p.Inputs[len(p.Inputs)-1].Sequence != uint64(maxPendingInputs+9) {
		t.Fatal("newest input lost")
	}
}
