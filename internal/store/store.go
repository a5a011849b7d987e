// Package store holds the hierarchical document stores snapshots are written to.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
)

// Store reads and writes JSON values addressed by slash-delimited paths.
type Store interface {
	// Read returns the value at path, or nil when nothing is stored there.
	Read(ctx context.Context, path string) (any, error)
	// WriteBatch replaces the value at every path in entries as one atomic update.
	WriteBatch(ctx context.Context, entries map[string]any) error
}

// sortedPaths orders entries so a batch is applied deterministically.
func sortedPaths(entries map[string]any) []string {
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// applyEntries writes entries into a copy of root and returns the new tree.
func applyEntries(root any, entries map[string]any) (any, error) {
	next := docpath.Clone(root)
	for _, path := range sortedPaths(entries) {
		value, err := plain(entries[path])
		if err != nil {
			return nil, err
		}
		next = docpath.Set(next, docpath.Split(path), value)
	}
	return next, nil
}

// plain converts a value into generic JSON containers so the stored tree never
// aliases caller memory.
func plain(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool, json.Number, float64:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (any, error) {
	var out any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
