package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"portfolio_tracker/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore implements port.KeyValueStore as a single JSON document on disk.
// Keys are namespaced with a prefix so several stores can share one file.
// Writes replace the file atomically via a temp file and rename.
type FileStore struct {
	path      string
	namespace string
	mu        sync.Mutex
}

// NewFileStore creates a store backed by the given file path. The directory
// is created if needed; a missing file behaves as an empty store.
func NewFileStore(path, namespace string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory for %s: %w", path, err)
	}
	return &FileStore{path: path, namespace: namespace}, nil
}

func (s *FileStore) key(key string) string {
	return s.namespace + "-" + key
}

// Get reads the value stored under key into out. The second return reports
// whether the key was present.
func (s *FileStore) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}
	raw, ok := doc[s.key(key)]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal value for key %s: %w", key, err)
	}
	return true, nil
}

// Set writes value under key, replacing any prior value.
func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}
	doc[s.key(key)] = raw
	return s.save(doc)
}

// Remove deletes key. Removing an absent key is not an error.
func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc[s.key(key)]; !ok {
		return nil
	}
	delete(doc, s.key(key))
	return s.save(doc)
}

func (s *FileStore) load() (map[string]jsoniter.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]jsoniter.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read store file %s: %w", s.path, err)
	}
	doc := map[string]jsoniter.RawMessage{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) save(doc map[string]jsoniter.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal store document: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file %s: %w", s.path, err)
	}
	return nil
}

var _ port.KeyValueStore = (*FileStore)(nil)
