package snapshot

import "time"

// Snapshot is one scrape of a target at a point in time. Section values are
// canonical JSON values (maps, slices, strings, bools) and are treated as
// immutable once the snapshot is built.
type Snapshot struct {
	schema    *Schema
	sections  map[string]any
	updatedAt time.Time
}

// New builds a snapshot from already-canonical section values. Keys that are
// not sections of schema are dropped; sections missing from the map stay absent.
func New(schema *Schema, sections map[string]any) Snapshot {
	kept := make(map[string]any, len(sections))
	for name, value := range sections {
		if schema.HasSection(name) {
			kept[name] = value
		}
	}
	return Snapshot{schema: schema, sections: kept}
}

// WithUpdatedAt returns a copy carrying the given stamp.
func (s Snapshot) WithUpdatedAt(t time.Time) Snapshot {
	s.updatedAt = t
	return s
}

// Kind returns the page variant.
func (s Snapshot) Kind() Kind {
	if s.schema == nil {
		return ""
	}
	return s.schema.kind
}

// Schema returns the variant schema.
func (s Snapshot) Schema() *Schema {
	return s.schema
}

// Sections lists the schema's section names, present or not.
func (s Snapshot) Sections() []string {
	if s.schema == nil {
		return nil
	}
	return s.schema.Sections()
}

// Collections lists the schema's element-wise collections.
func (s Snapshot) Collections() []Collection {
	if s.schema == nil {
		return nil
	}
	return s.schema.Collections()
}

// Section returns the value of a present section.
func (s Snapshot) Section(name string) (any, bool) {
	v, ok := s.sections[name]
	return v, ok
}

// Present lists the sections this snapshot actually carries, in schema order.
func (s Snapshot) Present() []string {
	var out []string
	for _, name := range s.Sections() {
		if _, ok := s.sections[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Document returns the present sections as a fresh top-level map, without updatedAt.
func (s Snapshot) Document() map[string]any {
	doc := make(map[string]any, len(s.sections))
	for k, v := range s.sections {
		doc[k] = v
	}
	return doc
}

// UpdatedAt returns the stamp read back from the store, zero for fresh scrapes.
func (s Snapshot) UpdatedAt() time.Time {
	return s.updatedAt
}
