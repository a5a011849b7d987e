package handlers

import (
	"context"
	"sort"

	"github.com/preston-bernstein/football-sync-service/internal/cycle"
	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

// Target is the part of a cycle controller the HTTP surface uses.
type Target interface {
	Target() cycle.Target
	State() cycle.State
	Running() bool
	LastResult() cycle.Result
	RunCycle(ctx context.Context) (cycle.Result, error)
}

type targetIndex struct {
	byName map[string]Target
	names  []string
}

func newTargetIndex(targets []Target) targetIndex {
	idx := targetIndex{byName: make(map[string]Target, len(targets))}
	for _, t := range targets {
		if t == nil {
			continue
		}
		name := t.Target().Name
		if _, dup := idx.byName[name]; dup {
			continue
		}
		idx.byName[name] = t
		idx.names = append(idx.names, name)
	}
	sort.Strings(idx.names)
	return idx
}

func (i targetIndex) lookup(name string) (Target, bool) {
	t, ok := i.byName[name]
	return t, ok
}

type cycleView struct {
	Target     string   `json:"target"`
	Outcome    string   `json:"outcome"`
	Paths      []string `json:"paths"`
	UpdatedAt  string   `json:"updatedAt,omitempty"`
	StartedAt  string   `json:"startedAt,omitempty"`
	DurationMS int64    `json:"durationMs"`
	Error      string   `json:"error,omitempty"`
}

func newCycleView(res cycle.Result) cycleView {
	v := cycleView{
		Target:     res.Target,
		Outcome:    string(res.Outcome),
		Paths:      res.Paths,
		DurationMS: res.Duration.Milliseconds(),
	}
	if v.Paths == nil {
		v.Paths = []string{}
	}
	if !res.UpdatedAt.IsZero() {
		v.UpdatedAt = timeutil.FormatTimestamp(res.UpdatedAt)
	}
	if !res.StartedAt.IsZero() {
		v.StartedAt = timeutil.FormatTimestamp(res.StartedAt)
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	return v
}

type targetView struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Path        string     `json:"path"`
	URL         string     `json:"url,omitempty"`
	Granularity string     `json:"granularity"`
	State       string     `json:"state"`
	Running     bool       `json:"running"`
	LastCycle   *cycleView `json:"lastCycle,omitempty"`
}

func newTargetView(t Target) targetView {
	tg := t.Target()
	v := targetView{
		Name:        tg.Name,
		Kind:        string(tg.Kind),
		Path:        tg.Path,
		URL:         tg.URL,
		Granularity: string(tg.Granularity),
		State:       string(t.State()),
		Running:     t.Running(),
	}
	if last := t.LastResult(); last.Outcome != "" {
		lv := newCycleView(last)
		v.LastCycle = &lv
	}
	return v
}
