package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	_ "modernc.org/sqlite"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

const backendSQLite = "sqlite"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS changes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	key         TEXT NOT NULL,
	merge_patch TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_key ON changes(key, id);
`

var sqlitePragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// Change is one journaled batch for a top-level key, expressed as an RFC 7386
// merge patch from the previous document to the new one.
type Change struct {
	ID         int64
	Key        string
	MergePatch json.RawMessage
	CreatedAt  time.Time
}

// SQLiteStore keeps one row per top-level key and journals every change.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite store: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	for _, p := range sqlitePragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite store: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Read returns the value at path. The empty path assembles every key.
func (s *SQLiteStore) Read(ctx context.Context, path string) (any, error) {
	segs := docpath.Split(path)
	if len(segs) == 0 {
		root, err := s.readAll(ctx)
		if err != nil {
			return nil, &StoreReadError{Backend: backendSQLite, Path: path, Err: err}
		}
		return root, nil
	}

	doc, found, err := readDocument(ctx, s.db, segs[0])
	if err != nil {
		return nil, &StoreReadError{Backend: backendSQLite, Path: path, Err: err}
	}
	if !found {
		return nil, nil
	}
	v, ok := docpath.Get(doc, segs[1:])
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (s *SQLiteStore) readAll(ctx context.Context) (any, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, body FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var root map[string]any
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return nil, err
		}
		doc, err := decode([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
		if root == nil {
			root = make(map[string]any)
		}
		root[key] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return root, nil
}

// WriteBatch applies entries in one transaction and journals a merge patch for
// every top-level key whose document changed.
func (s *SQLiteStore) WriteBatch(ctx context.Context, entries map[string]any) error {
	if err := s.writeBatch(ctx, entries); err != nil {
		return &StoreWriteError{Backend: backendSQLite, Paths: sortedPaths(entries), Err: err}
	}
	return nil
}

func (s *SQLiteStore) writeBatch(ctx context.Context, entries map[string]any) error {
	groups, deletes, err := s.group(ctx, entries)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stamp := timeutil.FormatTimestamp(s.now())
	for _, key := range deletes {
		before, found, err := readDocument(ctx, tx, key)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key); err != nil {
			return err
		}
		if err := journal(ctx, tx, key, before, nil, false, stamp); err != nil {
			return err
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		before, found, err := readDocument(ctx, tx, key)
		if err != nil {
			return err
		}
		after, err := applyEntries(before, groups[key])
		if err != nil {
			return err
		}
		body, err := json.Marshal(after)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
			key, string(body), stamp); err != nil {
			return err
		}
		if err := journal(ctx, tx, key, before, after, found, stamp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// group splits entries by their top-level key. A root entry replaces every key:
// keys it does not carry are returned for deletion.
func (s *SQLiteStore) group(ctx context.Context, entries map[string]any) (map[string]map[string]any, []string, error) {
	groups := make(map[string]map[string]any)
	add := func(key, rest string, value any) {
		if groups[key] == nil {
			groups[key] = make(map[string]any)
		}
		groups[key][rest] = value
	}

	var deletes []string
	for _, path := range sortedPaths(entries) {
		segs := docpath.Split(path)
		if len(segs) > 0 {
			add(segs[0], docpath.Join(segs[1:]...), entries[path])
			continue
		}
		value, err := plain(entries[path])
		if err != nil {
			return nil, nil, err
		}
		doc, ok := value.(map[string]any)
		if !ok && value != nil {
			return nil, nil, fmt.Errorf("root value must be an object, got %T", value)
		}
		existing, err := s.keys(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, key := range existing {
			if _, keep := doc[key]; !keep {
				deletes = append(deletes, key)
			}
		}
		for key, v := range doc {
			add(key, "", v)
		}
	}
	return groups, deletes, nil
}

func (s *SQLiteStore) keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM documents ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Changes returns the most recent journal entries, newest first.
func (s *SQLiteStore) Changes(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, key, merge_patch, created_at FROM changes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var (
			c       Change
			patch   string
			created string
		)
		if err := rows.Scan(&c.ID, &c.Key, &patch, &created); err != nil {
			return nil, err
		}
		c.MergePatch = json.RawMessage(patch)
		if ts, err := timeutil.ParseTimestamp(created); err == nil {
			c.CreatedAt = ts
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readDocument(ctx context.Context, q queryer, key string) (any, bool, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	doc, err := decode([]byte(body))
	if err != nil {
		return nil, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return doc, true, nil
}

// journal records the change to key as a merge patch over {key: document}.
// Unchanged documents are not journaled.
func journal(ctx context.Context, tx *sql.Tx, key string, before, after any, existed bool, stamp string) error {
	original := map[string]any{}
	if existed || before != nil {
		original[key] = before
	}
	modified := map[string]any{}
	if after != nil {
		modified[key] = after
	}
	origJSON, err := json.Marshal(original)
	if err != nil {
		return err
	}
	modJSON, err := json.Marshal(modified)
	if err != nil {
		return err
	}
	patch, err := jsonpatch.CreateMergePatch(origJSON, modJSON)
	if err != nil {
		return fmt.Errorf("merge patch for %q: %w", key, err)
	}
	if string(patch) == "{}" {
		return nil
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO changes (key, merge_patch, created_at) VALUES (?, ?, ?)`,
		key, string(patch), stamp)
	return err
}
