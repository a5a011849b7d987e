package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
	"github.com/preston-bernstein/football-sync-service/internal/store"
)

// StubProvider is a test double for providers.SnapshotProvider.
type StubProvider struct {
	// Raw is returned on every call; Records, when set, is consumed one per call
	// and the last element repeats.
	Raw     any
	Records []any
	Err     error
	Calls   atomic.Int32
	// Notify is closed on the first call.
	Notify chan struct{}
	// Block, when set, holds every call until it is closed or ctx ends.
	Block chan struct{}

	mu       sync.Mutex
	requests []providers.Request
}

// FetchSnapshot returns the configured record and error while tracking calls.
func (s *StubProvider) FetchSnapshot(ctx context.Context, req providers.Request) (any, error) {
	n := int(s.Calls.Add(1))
	s.mu.Lock()
	s.requests = append(s.requests, req)
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.mu.Unlock()

	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Records) > 0 {
		idx := n - 1
		if idx >= len(s.Records) {
			idx = len(s.Records) - 1
		}
		return docpath.Clone(s.Records[idx]), nil
	}
	return docpath.Clone(s.Raw), nil
}

// Requests returns the requests seen so far.
func (s *StubProvider) Requests() []providers.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]providers.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// StubStore wraps a MemoryStore with injectable failures and a batch log.
type StubStore struct {
	*store.MemoryStore
	ReadErr  error
	WriteErr error

	mu      sync.Mutex
	batches []map[string]any
}

// NewStubStore returns a StubStore over an empty MemoryStore.
func NewStubStore() *StubStore {
	return &StubStore{MemoryStore: store.NewMemoryStore()}
}

// Read returns ReadErr when set, else delegates.
func (s *StubStore) Read(ctx context.Context, path string) (any, error) {
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return s.MemoryStore.Read(ctx, path)
}

// WriteBatch records the batch and returns WriteErr when set, else delegates.
func (s *StubStore) WriteBatch(ctx context.Context, entries map[string]any) error {
	s.mu.Lock()
	s.batches = append(s.batches, entries)
	s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	return s.MemoryStore.WriteBatch(ctx, entries)
}

// Batches returns every batch passed to WriteBatch.
func (s *StubStore) Batches() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.batches))
	copy(out, s.batches)
	return out
}
