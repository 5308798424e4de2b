package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps each entry in its own JSON file below a base directory.
// File names are derived from the SHA-256 of the key, with the first two hex
// characters as a subdirectory so no directory grows too large.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// fileEntry wraps stored data with its expiry.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// NewFileStore creates a file store in dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Get retrieves a value. Unreadable or expired entries are removed and
// reported as missing.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	s.mu.RLock()
	path := s.path(key)
	data, err := os.ReadFile(path)
	s.mu.RUnlock()

	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read store entry: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil || expired(entry.ExpiresAt, time.Now()) {
		_ = s.Delete(ctx, key)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value.
func (s *FileStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	entryData, err := json.Marshal(fileEntry{
		Key:       key,
		Data:      data,
		ExpiresAt: expiry(ttl, time.Now()),
	})
	if err != nil {
		return fmt.Errorf("marshal store entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(path, entryData, 0o600); err != nil {
		return fmt.Errorf("write store entry: %w", err)
	}
	return nil
}

// Delete removes a value.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove store entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *FileStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("clear store: %w", err)
	}
	return removed, nil
}

// Close does nothing for file stores.
func (s *FileStore) Close() error { return nil }

// Path returns the base directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

var _ Store = (*FileStore)(nil)
