package store

import (
	"context"
	"sync"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
)

const backendMemory = "memory"

// MemoryStore keeps a thread-safe document tree in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	root any
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Read returns a copy of the value at path.
func (s *MemoryStore) Read(ctx context.Context, path string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, &StoreReadError{Backend: backendMemory, Path: path, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := docpath.Get(s.root, docpath.Split(path))
	if !ok {
		return nil, nil
	}
	return docpath.Clone(v), nil
}

// WriteBatch applies every entry to a copy of the tree and swaps it in.
func (s *MemoryStore) WriteBatch(ctx context.Context, entries map[string]any) error {
	if err := ctx.Err(); err != nil {
		return &StoreWriteError{Backend: backendMemory, Paths: sortedPaths(entries), Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := applyEntries(s.root, entries)
	if err != nil {
		return &StoreWriteError{Backend: backendMemory, Paths: sortedPaths(entries), Err: err}
	}
	s.root = next
	return nil
}
