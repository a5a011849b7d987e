package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
)

const backendFS = "fs"

// FSStore keeps the whole document tree in a single JSON file.
type FSStore struct {
	mu   sync.Mutex
	path string
}

// NewFSStore constructs a file-backed store persisting to path.
func NewFSStore(path string) *FSStore {
	return &FSStore{path: path}
}

// Path exposes the backing file (primarily for testing).
func (s *FSStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Read loads the file and returns the value at path.
func (s *FSStore) Read(ctx context.Context, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreReadError{Backend: backendFS, Path: path, Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	root, _, err := s.load()
	if err != nil {
		return nil, &StoreReadError{Backend: backendFS, Path: path, Err: err}
	}
	v, ok := docpath.Get(root, docpath.Split(path))
	if !ok {
		return nil, nil
	}
	return v, nil
}

// WriteBatch applies entries and atomically replaces the file. Unchanged
// content leaves the file untouched.
func (s *FSStore) WriteBatch(ctx context.Context, entries map[string]any) error {
	if err := ctx.Err(); err != nil {
		return &StoreWriteError{Backend: backendFS, Paths: sortedPaths(entries), Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(entries); err != nil {
		return &StoreWriteError{Backend: backendFS, Paths: sortedPaths(entries), Err: err}
	}
	return nil
}

func (s *FSStore) write(entries map[string]any) error {
	if s.path == "" {
		return errors.New("store path not configured")
	}
	root, existing, err := s.load()
	if err != nil {
		return err
	}
	next, err := applyEntries(root, entries)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	if bytes.Equal(existing, data) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// load returns the decoded tree and the raw bytes it came from. A missing file
// is an empty tree.
func (s *FSStore) load() (any, []byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, data, nil
	}
	root, err := decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return root, data, nil
}
