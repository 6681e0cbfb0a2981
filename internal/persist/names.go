package persist

import (
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"golang.org/x/text/unicode/norm"
)

// NameCache enforces unique character names across accounts. It is an index
// over the player files; when its file is missing or unreadable it rebuilds
// itself by scanning the player store.
type NameCache struct {
	path  string
	names map[string]string // normalized character name -> username
}

// NormalizeName folds a character name for uniqueness checks. Display keeps
// the original casing; only the index is folded.
func NormalizeName(name string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(name)))
}

// ValidCharacterName bounds character names to something printable.
func ValidCharacterName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 1 || len(name) > 24 {
		return false
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

func openNameCache(path string, players *PlayerStore, log *zap.Logger) (*NameCache, error) {
	c := &NameCache{path: path, names: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c.names); err != nil {
			log.Warn("name cache unreadable, rebuilding", zap.Error(err))
			c.names = make(map[string]string)
		} else {
			return c, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	err = players.Each(func(rec *PlayerRecord) error {
		c.names[NormalizeName(rec.Name)] = rec.Username
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := c.save(); err != nil {
		return nil, err
	}
	log.Info("name cache rebuilt", zap.Int("names", len(c.names)))
	return c, nil
}

func (c *NameCache) save() error {
	data, err := yaml.Marshal(c.names)
	if err != nil {
		return err
	}
	return writeFileAtomic(c.path, data)
}

// Taken reports whether a character name is already claimed.
func (c *NameCache) Taken(name string) bool {
	_, ok := c.names[NormalizeName(name)]
	return ok
}

// Reserve claims a character name for a username. ErrExists when taken.
func (c *NameCache) Reserve(name, username string) error {
	key := NormalizeName(name)
	if _, ok := c.names[key]; ok {
		return ErrExists
	}
	c.names[key] = username
	return c.save()
}

// Release frees a character name, used when account creation fails halfway.
func (c *NameCache) Release(name string) error {
	delete(c.names, NormalizeName(name))
	return c.save()
}
