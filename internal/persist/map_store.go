package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/emberworld/server/internal/game"
	"github.com/emberworld/server/internal/gamemap"
)

// MapStore persists one YAML file per map, keyed by the numeric map id.
type MapStore struct {
	dir string
}

func (s *MapStore) path(id game.MapID) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.yaml", uint64(id)))
}

// Load returns a map by id, or nil when it was never saved. Loaded maps are
// validated and get a fresh autotile cache.
func (s *MapStore) Load(id game.MapID) (*gamemap.Map, error) {
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m := &gamemap.Map{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("map %v: %w", id, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.UpdateAutotileCache()
	return m, nil
}

// LoadAll reads every stored map.
func (s *MapStore) LoadAll() (map[game.MapID]*gamemap.Map, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	maps := make(map[game.MapID]*gamemap.Map)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(name, ".yaml"), 10, 64)
		if err != nil {
			continue
		}
		m, err := s.Load(game.MapID(id))
		if err != nil {
			return nil, err
		}
		if m != nil {
			maps[m.ID] = m
		}
	}
	return maps, nil
}

// Save validates and writes a map atomically. The caller bumps the cache key.
func (s *MapStore) Save(m *gamemap.Map) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path(m.ID), data)
}
