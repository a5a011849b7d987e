// Package fixture serves canned scrape records for local runs and tests.
package fixture

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/providers"
)

//go:embed data/*.json
var records embed.FS

// Provider returns a static record per page kind.
type Provider struct{}

// New creates a fixture provider.
func New() *Provider {
	return &Provider{}
}

// FetchSnapshot decodes a fresh copy of the record for req.Kind on every call.
func (p *Provider) FetchSnapshot(ctx context.Context, req providers.Request) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, providers.WrapFetchError("fixture", req.URL, err)
	}
	var name string
	switch req.Kind {
	case snapshot.KindMatchDetail:
		name = "data/match_detail.json"
	case snapshot.KindMatchList:
		name = "data/match_list.json"
	default:
		return nil, &providers.FetchError{Provider: "fixture", URL: req.URL, Err: fmt.Errorf("no fixture for kind %q", req.Kind)}
	}

	data, err := records.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return raw, nil
}
