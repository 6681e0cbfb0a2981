package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var (
	ErrExists   = errors.New("record already exists")
	ErrBadName  = errors.New("invalid name")
	ErrNotFound = errors.New("record not found")
)

// Stores bundles the file-backed stores under one data directory:
//
//	<root>/players/<username>.yaml
//	<root>/maps/<id>.yaml
//	<root>/names.yaml
type Stores struct {
	Players *PlayerStore
	Maps    *MapStore
	Names   *NameCache
}

func Open(root string, log *zap.Logger) (*Stores, error) {
	for _, dir := range []string{root, filepath.Join(root, "players"), filepath.Join(root, "maps")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	players := &PlayerStore{dir: filepath.Join(root, "players")}
	maps := &MapStore{dir: filepath.Join(root, "maps")}

	names, err := openNameCache(filepath.Join(root, "names.yaml"), players, log)
	if err != nil {
		return nil, err
	}

	return &Stores{Players: players, Maps: maps, Names: names}, nil
}

// writeFileAtomic writes via a temp file in the same directory plus rename,
// so a crash mid-write never leaves a truncated record behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
