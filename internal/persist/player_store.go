package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/emberworld/server/internal/game"
)

// PlayerRecord is the durable part of a player: identity plus where they
// logged out. Everything kinematic is rebuilt on login.
type PlayerRecord struct {
	Username     string         `yaml:"username"`
	PasswordHash string         `yaml:"passwordHash"`
	Name         string         `yaml:"name"`
	Sprite       uint32         `yaml:"sprite"`
	Map          game.MapID     `yaml:"map"`
	Position     game.Vec2      `yaml:"position"`
	Direction    game.Direction `yaml:"direction"`
}

// PlayerStore persists one YAML file per account, keyed by the normalized
// username.
type PlayerStore struct {
	dir string
}

// NormalizeUsername folds a username to its canonical form so "Möve" and its
// compatibility spellings collide instead of becoming distinct accounts.
func NormalizeUsername(username string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(username)))
}

// ValidUsername bounds the charset so usernames map safely onto file names.
func ValidUsername(username string) bool {
	if len(username) < 3 || len(username) > 24 {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

func (s *PlayerStore) path(username string) string {
	return filepath.Join(s.dir, username+".yaml")
}

// Load returns the record for a username, or nil when no account exists.
func (s *PlayerStore) Load(username string) (*PlayerRecord, error) {
	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return nil, nil
	}

	data, err := os.ReadFile(s.path(username))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec := &PlayerRecord{}
	if err := yaml.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("player %s: %w", username, err)
	}
	return rec, nil
}

// Save writes the record, creating or overwriting its file atomically.
func (s *PlayerStore) Save(rec *PlayerRecord) error {
	username := NormalizeUsername(rec.Username)
	if !ValidUsername(username) {
		return fmt.Errorf("%w: %q", ErrBadName, rec.Username)
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path(username), data)
}

// Create hashes the password and writes a fresh record. ErrExists when the
// username is already taken.
func (s *PlayerStore) Create(username, password, name string, start *PlayerRecord) (*PlayerRecord, error) {
	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return nil, fmt.Errorf("%w: %q", ErrBadName, username)
	}
	if s.Exists(username) {
		return nil, ErrExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	rec := &PlayerRecord{
		Username:     username,
		PasswordHash: string(hash),
		Name:         name,
	}
	if start != nil {
		rec.Sprite = start.Sprite
		rec.Map = start.Map
		rec.Position = start.Position
		rec.Direction = start.Direction
	}
	if err := s.Save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PlayerStore) Exists(username string) bool {
	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return false
	}
	_, err := os.Stat(s.path(username))
	return err == nil
}

// ValidatePassword checks a raw password against a stored bcrypt hash.
func (s *PlayerStore) ValidatePassword(hash, rawPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}

// dummyHash is compared against when the account does not exist so a login
// attempt costs the same time either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("missing-account-filler"), bcrypt.DefaultCost)

// ValidateMissing burns the same bcrypt work as a real check and always
// reports false, hiding which usernames exist.
func (s *PlayerStore) ValidateMissing(rawPassword string) bool {
	bcrypt.CompareHashAndPassword(dummyHash, []byte(rawPassword))
	return false
}

// Each walks every stored record, used to rebuild derived indexes.
func (s *PlayerStore) Each(fn func(*PlayerRecord) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		rec, err := s.Load(strings.TrimSuffix(entry.Name(), ".yaml"))
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
