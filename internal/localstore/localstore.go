// Package localstore is the durable local fallback: a small key/value store
// backed by one file per key in the state directory. It stands in for the
// remote store when no user is signed in or the remote is unreachable.
package localstore

import (
	"log/slog"
	"os"
	"path/filepath"
)

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Get returns the stored value for key. Any read failure is treated as
// absence; a corrupt local record is never surfaced as an error.
func (s *Store) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set durably replaces the value for key. The write goes through a temp file
// and rename so a crash mid-write leaves the previous value intact.
func (s *Store) Set(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return err
	}
	return nil
}

// Delete removes the stored value for key. Missing keys are a no-op.
func (s *Store) Delete(key string) {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		slog.Warn("Unable to remove local record", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
