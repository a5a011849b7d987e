// Package diff computes the minimal set of writes that brings a stored
// snapshot up to date with a fresh scrape.
package diff

import (
	"fmt"
	"strconv"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
)

// Granularity selects how coarse patch entries are.
type Granularity string

const (
	Whole           Granularity = "whole"
	Sectioned       Granularity = "sectioned"
	KeyedCollection Granularity = "keyed-collection"
)

// ParseGranularity validates a configured granularity.
func ParseGranularity(raw string) (Granularity, error) {
	switch g := Granularity(raw); g {
	case Whole, Sectioned, KeyedCollection:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", raw)
	}
}

// Differ compares snapshots at a fixed granularity.
type Differ struct {
	granularity Granularity
}

// New returns a differ for g.
func New(g Granularity) (*Differ, error) {
	if _, err := ParseGranularity(string(g)); err != nil {
		return nil, err
	}
	return &Differ{granularity: g}, nil
}

// Granularity returns the configured granularity.
func (d *Differ) Granularity() Granularity {
	return d.granularity
}

// Diff returns the writes needed to turn old into next. A nil old snapshot
// yields a root write. Sections missing from next never produce entries.
// The result is empty, never nil, when nothing changed.
func (d *Differ) Diff(old *snapshot.Snapshot, next snapshot.Snapshot) PatchSet {
	patch := PatchSet{}
	if old == nil || old.Kind() != next.Kind() {
		patch[RootPath] = next.Document()
		return patch
	}

	switch d.granularity {
	case Whole:
		if !snapshot.Equal(old.Document(), next.Document()) {
			patch[RootPath] = next.Document()
		}
	case Sectioned:
		diffSections(*old, next, nil, patch)
	case KeyedCollection:
		collections := make(map[string]snapshot.Collection)
		for _, c := range next.Collections() {
			collections[c.Section] = c
		}
		diffSections(*old, next, collections, patch)
	}
	return patch
}

func diffSections(old, next snapshot.Snapshot, collections map[string]snapshot.Collection, patch PatchSet) {
	for _, name := range next.Present() {
		nv, _ := next.Section(name)
		ov, ok := old.Section(name)
		if !ok {
			patch[name] = nv
			continue
		}
		if snapshot.Equal(ov, nv) {
			continue
		}
		if c, keyed := collections[name]; keyed {
			diffCollection(c, ov, nv, patch)
			continue
		}
		patch[name] = nv
	}
}

// diffCollection matches groups by index. A list that shrank is replaced
// whole so no stale trailing element survives.
func diffCollection(c snapshot.Collection, ov, nv any, patch PatchSet) {
	oldGroups, ok1 := ov.([]any)
	newGroups, ok2 := nv.([]any)
	if !ok1 || !ok2 || len(newGroups) < len(oldGroups) {
		patch[c.Section] = nv
		return
	}
	for i, group := range newGroups {
		path := docpath.Join(c.Section, strconv.Itoa(i))
		if i >= len(oldGroups) {
			patch[path] = group
			continue
		}
		if snapshot.Equal(oldGroups[i], group) {
			continue
		}
		diffGroup(c, path, oldGroups[i], group, patch)
	}
}

func diffGroup(c snapshot.Collection, path string, og, ng any, patch PatchSet) {
	oldGroup, ok1 := og.(map[string]any)
	newGroup, ok2 := ng.(map[string]any)
	if !ok1 || !ok2 || c.Identity(oldGroup) != c.Identity(newGroup) || !sameExcept(oldGroup, newGroup, c.Children) {
		patch[path] = ng
		return
	}
	oldChildren, ok1 := oldGroup[c.Children].([]any)
	newChildren, ok2 := newGroup[c.Children].([]any)
	if !ok1 || !ok2 || len(newChildren) < len(oldChildren) {
		patch[path] = ng
		return
	}
	for j, child := range newChildren {
		if j < len(oldChildren) && snapshot.Equal(oldChildren[j], child) {
			continue
		}
		patch[docpath.Join(path, c.Children, strconv.Itoa(j))] = child
	}
}

// sameExcept compares two records ignoring one key.
func sameExcept(a, b map[string]any, skip string) bool {
	strip := func(m map[string]any) map[string]any {
		out := make(map[string]any, len(m))
		for k, v := range m {
			if k != skip {
				out[k] = v
			}
		}
		return out
	}
	return snapshot.Equal(strip(a), strip(b))
}
