package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/gamemap"
	"github.com/emberworld/server/internal/persist"
)

// State tracks all players and maps currently in-world.
// Single-goroutine access only (game loop).
type State struct {
	bySession map[uint64]*Player
	byEntity  map[game.Entity]*Player
	byName    map[string]*Player

	maps     map[game.MapID]*gamemap.Map
	mapStore *persist.MapStore

	nextEntity game.Entity

	// Reusable query buffer; the game loop is single threaded so one is enough.
	entityBuf []*Player

	log *zap.Logger
}

func NewState(mapStore *persist.MapStore, log *zap.Logger) *State {
	return &State{
		bySession: make(map[uint64]*Player),
		byEntity:  make(map[game.Entity]*Player),
		byName:    make(map[string]*Player),
		maps:      make(map[game.MapID]*gamemap.Map),
		mapStore:  mapStore,
		log:       log,
	}
}

// LoadMaps pulls every stored map into memory and guarantees the default map
// exists so a fresh data directory boots into a playable world.
func (s *State) LoadMaps() error {
	maps, err := s.mapStore.LoadAll()
	if err != nil {
		return fmt.Errorf("load maps: %w", err)
	}
	s.maps = maps

	if _, ok := s.maps[game.DefaultMap]; !ok {
		if _, err := s.EnsureMap(game.DefaultMap); err != nil {
			return err
		}
	}
	s.log.Info("maps loaded", zap.Int("count", len(s.maps)))
	return nil
}

// Map returns a loaded map, nil when the id is unknown.
func (s *State) Map(id game.MapID) *gamemap.Map {
	return s.maps[id]
}

// Maps exposes the loaded map set for read-only iteration.
func (s *State) Maps() map[game.MapID]*gamemap.Map {
	return s.maps
}

// EnsureMap returns the map for id, creating and saving an empty one when it
// does not exist yet. Warping to a brand new id mints the map on the spot.
func (s *State) EnsureMap(id game.MapID) (*gamemap.Map, error) {
	if m, ok := s.maps[id]; ok {
		return m, nil
	}

	m := gamemap.New(id, gamemap.DefaultWidth, gamemap.DefaultHeight)
	if err := s.mapStore.Save(m); err != nil {
		return nil, fmt.Errorf("create map %v: %w", id, err)
	}
	s.maps[id] = m
	s.log.Info("map created", zap.Uint64("map", uint64(id)))
	return m, nil
}

// ReplaceMap swaps in an edited map and persists it. The in-memory copy is
// replaced even when the write fails; a disk error costs durability for this
// one save, not the edit itself.
func (s *State) ReplaceMap(m *gamemap.Map) error {
	s.maps[m.ID] = m
	return s.mapStore.Save(m)
}

// AllocateEntity mints a fresh entity id, unique for the server's lifetime.
func (s *State) AllocateEntity() game.Entity {
	s.nextEntity++
	return s.nextEntity
}

// AddPlayer registers a player in the world.
func (s *State) AddPlayer(p *Player) {
	s.bySession[p.SessionID] = p
	s.byEntity[p.ID] = p
	s.byName[persist.NormalizeName(p.Name)] = p
}

// RemovePlayer removes a player from the world and returns it for the final
// save, or nil when the session had no player.
func (s *State) RemovePlayer(sessionID uint64) *Player {
	p, ok := s.bySession[sessionID]
	if !ok {
		return nil
	}
	delete(s.bySession, sessionID)
	delete(s.byEntity, p.ID)
	delete(s.byName, persist.NormalizeName(p.Name))
	return p
}

// GetBySession returns a player by session id.
func (s *State) GetBySession(sessionID uint64) *Player {
	return s.bySession[sessionID]
}

// GetByEntity returns a player by entity id.
func (s *State) GetByEntity(id game.Entity) *Player {
	return s.byEntity[id]
}

// GetByName returns a player by character name, case folded.
func (s *State) GetByName(name string) *Player {
	return s.byName[persist.NormalizeName(name)]
}

// IsOnline reports whether an account is already in-world.
func (s *State) IsOnline(username string) bool {
	username = persist.NormalizeUsername(username)
	for _, p := range s.bySession {
		if p.Username == username {
			return true
		}
	}
	return false
}

// PlayersOnMap collects every player on a map into a reused buffer. The slice
// is only valid until the next call.
func (s *State) PlayersOnMap(id game.MapID) []*Player {
	s.entityBuf = s.entityBuf[:0]
	for _, p := range s.bySession {
		if p.Map == id {
			s.entityBuf = append(s.entityBuf, p)
		}
	}
	return s.entityBuf
}

// Each visits every in-world player.
func (s *State) Each(fn func(*Player)) {
	for _, p := range s.bySession {
		fn(p)
	}
}

// Count returns the number of players in-world.
func (s *State) Count() int {
	return len(s.bySession)
}

// OccupiedAt reports whether any other player's footprint on the map
// overlaps the given box.
func (s *State) OccupiedAt(mapID game.MapID, box game.Box2, exclude game.Entity) bool {
	for _, p := range s.bySession {
		if p.ID == exclude || p.Map != mapID {
			continue
		}
		if game.CollisionBox(p.Position).Intersects(box) {
			return true
		}
	}
	return false
}
