// Package normalize turns raw extracted records into comparison-stable snapshots.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/preston-bernstein/football-sync-service/internal/domain/snapshot"
	"github.com/preston-bernstein/football-sync-service/internal/timeutil"
)

// Normalizer canonicalizes records of one page variant.
type Normalizer struct {
	schema *snapshot.Schema
}

// New returns a normalizer for schema.
func New(schema *snapshot.Schema) *Normalizer {
	return &Normalizer{schema: schema}
}

// Normalize decodes every section present in raw into the schema's fixed
// layout and fills sentinels for missing fields. Sections absent from raw stay
// absent. Only a raw value that is not a record is an error.
func (n *Normalizer) Normalize(raw any) (snapshot.Snapshot, error) {
	record, ok := raw.(map[string]any)
	if !ok || record == nil {
		return snapshot.Snapshot{}, &MalformedInputError{Kind: n.schema.Kind(), Got: typeName(raw)}
	}

	sections := make(map[string]any, len(record))
	for _, name := range n.schema.Sections() {
		value, present := record[name]
		if !present {
			continue
		}
		canonical, err := n.section(name, value)
		if err != nil {
			return snapshot.Snapshot{}, &MalformedInputError{Kind: n.schema.Kind(), Got: "section " + name, Err: err}
		}
		sections[name] = canonical
	}

	snap := snapshot.New(n.schema, sections)
	if stamp, ok := record[snapshot.UpdatedAtField].(string); ok {
		if parsed, err := timeutil.ParseTimestamp(stamp); err == nil {
			snap = snap.WithUpdatedAt(parsed)
		}
	}
	return snap, nil
}

func (n *Normalizer) section(name string, value any) (any, error) {
	target, ok := n.schema.NewSection(name)
	if !ok {
		return nil, fmt.Errorf("unknown section %q", name)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	// Mistyped fields are skipped by the decoder and left to their sentinels.
	if err := json.Unmarshal(data, target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
	}
	target.Fill()
	return toCanonical(target)
}

// toCanonical re-encodes a typed section into generic JSON values so old and
// new snapshots compare on the same representation.
func toCanonical(v any) (any, error) {
	data, err := snapshot.Canonical(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
