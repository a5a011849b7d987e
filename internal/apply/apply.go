// Package apply writes patch sets to the store as single batches.
package apply

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/football-sync-service/internal/diff"
	"github.com/preston-bernstein/football-sync-service/internal/docpath"
	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/logging"
	"github.com/preston-bernstein/football-sync-service/internal/store"
	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

// BatchWriter is the write half of store.Store.
type BatchWriter interface {
	WriteBatch(ctx context.Context, entries map[string]any) error
}

// HookRecorder counts failed post-commit hooks.
type HookRecorder interface {
	RecordHookFailure(hook string)
}

// Commit describes a successful write.
type Commit struct {
	BasePath  string
	Paths     []string
	UpdatedAt time.Time
}

// Options configures an Applier.
type Options struct {
	Logger   *slog.Logger
	Hooks    []Hook
	Recorder HookRecorder
}

// Applier turns patch sets into store batches stamped with updatedAt.
type Applier struct {
	store    BatchWriter
	hooks    []Hook
	logger   *slog.Logger
	recorder HookRecorder
	now      func() time.Time

	mu   sync.Mutex
	last time.Time
}

// New returns an Applier writing to w.
func New(w BatchWriter, opts Options) *Applier {
	return &Applier{
		store:    w,
		hooks:    opts.Hooks,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		now:      time.Now,
	}
}

// Apply writes patch under base in one batch. An empty patch performs no
// write and returns a zero Commit. A root entry replaces the document at base,
// with updatedAt embedded; otherwise updatedAt is written next to the patched
// sections. Store failures are returned as store.StoreWriteError.
func (a *Applier) Apply(ctx context.Context, base string, patch diff.PatchSet) (Commit, error) {
	if patch.IsEmpty() {
		return Commit{BasePath: base}, nil
	}
	if err := patch.Validate(); err != nil {
		return Commit{}, fmt.Errorf("apply %s: %w", base, err)
	}

	stamp := a.stamp()
	entries, err := batch(base, patch, timeutil.FormatTimestamp(stamp))
	if err != nil {
		return Commit{}, err
	}

	if err := a.store.WriteBatch(ctx, entries); err != nil {
		if _, ok := store.AsStoreWriteError(err); ok {
			return Commit{}, err
		}
		return Commit{}, &store.StoreWriteError{Backend: "unknown", Paths: patch.Paths(), Err: err}
	}

	commit := Commit{BasePath: base, Paths: patch.Paths(), UpdatedAt: stamp}
	a.runHooks(ctx, commit)
	return commit, nil
}

func batch(base string, patch diff.PatchSet, stamp string) (map[string]any, error) {
	entries := make(map[string]any, len(patch)+1)
	if root, ok := patch.Root(); ok {
		doc, isRecord := root.(map[string]any)
		if !isRecord {
			return nil, fmt.Errorf("apply %s: root value must be a record, got %T", base, root)
		}
		stamped := make(map[string]any, len(doc)+1)
		for k, v := range doc {
			stamped[k] = v
		}
		stamped[snapshot.UpdatedAtField] = stamp
		entries[base] = stamped
		return entries, nil
	}
	for path, value := range patch {
		entries[docpath.Join(base, path)] = value
	}
	entries[docpath.Join(base, snapshot.UpdatedAtField)] = stamp
	return entries, nil
}

// stamp returns the current time at millisecond precision, strictly after any
// stamp this Applier handed out before.
func (a *Applier) stamp() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := a.now().UTC().Truncate(time.Millisecond)
	if !t.After(a.last) {
		t = a.last.Add(time.Millisecond)
	}
	a.last = t
	return t
}

func (a *Applier) runHooks(ctx context.Context, commit Commit) {
	for _, h := range a.hooks {
		if err := h.AfterCommit(ctx, commit); err != nil {
			logging.Warn(logging.FromContext(ctx, a.logger), "post-commit hook failed",
				logging.FieldHook, h.Name(),
				logging.FieldStorePath, commit.BasePath,
				logging.FieldError, err,
			)
			if a.recorder != nil {
				a.recorder.RecordHookFailure(h.Name())
			}
		}
	}
}
