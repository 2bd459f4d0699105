// Package store persists small string flags across runs, the way a browser
// persists values in local storage.
package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/bcomc/bcom/internal/errors"
	"gopkg.in/yaml.v3"
)

// Store is a durable key-value slot. Absent keys report ok=false.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

const (
	// StateDir is the directory under the user's home holding bcom state.
	StateDir = ".config/bcom"
	// StateFile is the state file name within StateDir.
	StateFile = "state.yaml"
)

// DefaultPath returns ~/.config/bcom/state.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrStore,
			"Cannot determine home directory",
			"Set HOME or run 'bcom settings set state-file <path>'")
	}
	return filepath.Join(home, StateDir, StateFile), nil
}

// FileStore keeps all keys in one YAML map on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the file at path. The file is
// created on the first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get reads key from the backing file.
func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes key and rewrites the backing file atomically.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *FileStore) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"Cannot read state file "+s.path,
			"Check file permissions")
	}

	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrStore,
			"State file is not valid YAML: "+s.path,
			"Delete the file to reset dock state")
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore, "Cannot encode state", "")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot create state directory "+dir,
			"Check directory permissions")
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"Cannot write state file "+s.path,
			"Check directory permissions")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrStore, "Cannot write state file "+s.path, "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrStore, "Cannot write state file "+s.path, "")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrStore, "Cannot replace state file "+s.path, "")
	}
	return nil
}

// MemoryStore is an in-process Store, used in tests and when no state file
// can be resolved.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// Writes returns how many times Set has been called.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
