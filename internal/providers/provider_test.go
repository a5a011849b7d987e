package providers

import (
	"context"
	"testing"

	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
)

func TestProviderFuncImplementsInterface(t *testing.T) {
	var called Request
	var p SnapshotProvider = ProviderFunc(func(ctx context.Context, req Request) (any, error) {
		called = req
		return map[string]any{}, nil
	})

	req := Request{Kind: snapshot.KindMatchDetail, URL: "https://example.test/match"}
	if _, err := p.FetchSnapshot(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if called != req {
		t.Fatalf("expected request to be passed through, got %+v", called)
	}
}
