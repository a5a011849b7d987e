package providers

import (
	"context"

	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
)

// Request identifies the page to scrape and the record layout expected back.
type Request struct {
	Kind snapshot.Kind
	URL  string
}

// SnapshotProvider fetches a page and extracts it into a raw record. The record
// is an arbitrarily nested JSON-like map; normalization happens downstream.
type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context, req Request) (any, error)
}

// ProviderFunc adapts a function to SnapshotProvider.
type ProviderFunc func(ctx context.Context, req Request) (any, error)

func (f ProviderFunc) FetchSnapshot(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}
