package client

import (
	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/gamemap"
	"github.com/emberworld/server/internal/protocol"
)

// MapCache keeps received maps so a map change only refetches when the
// server's cache key says the copy is stale.
type MapCache struct {
	maps map[game.MapID]*gamemap.Map
}

func NewMapCache() *MapCache {
	return &MapCache{
		maps: make(map[game.MapID]*gamemap.Map),
	}
}

// NeedsFetch reports whether a ChangeMap requires requesting the map data.
func (c *MapCache) NeedsFetch(change protocol.ChangeMap) bool {
	m, ok := c.maps[change.Map]
	return !ok || m.Settings.CacheKey != change.CacheKey
}

// Store caches a received map.
func (c *MapCache) Store(m *gamemap.Map) {
	c.maps[m.ID] = m
}

// Get returns a cached map, nil when absent.
func (c *MapCache) Get(id game.MapID) *gamemap.Map {
	return c.maps[id]
}
