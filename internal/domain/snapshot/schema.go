package snapshot

import "fmt"

// Kind tags the page variant a snapshot was scraped from.
type Kind string

const (
	KindMatchDetail Kind = "match_detail"
	KindMatchList   Kind = "match_list"
)

// UpdatedAtField is the top-level key the applier stamps on every write.
const UpdatedAtField = "updatedAt"

// Section is a typed decode target for one named section. Fill replaces
// missing values with their sentinels.
type Section interface {
	Fill()
}

// Collection describes an ordered list-of-records section whose elements are
// diffed individually. Identity names a group; Children is the key holding the
// group's own ordered records.
type Collection struct {
	Section  string
	Children string
	Identity func(group map[string]any) string
}

// Schema is the fixed field layout of one page variant.
type Schema struct {
	kind        Kind
	sections    []string
	factories   map[string]func() Section
	collections []Collection
}

type sectionDef struct {
	name string
	new  func() Section
}

func newSchema(kind Kind, defs []sectionDef, collections ...Collection) *Schema {
	s := &Schema{
		kind:        kind,
		factories:   make(map[string]func() Section, len(defs)),
		collections: collections,
	}
	for _, d := range defs {
		s.sections = append(s.sections, d.name)
		s.factories[d.name] = d.new
	}
	return s
}

// Kind returns the variant tag.
func (s *Schema) Kind() Kind {
	return s.kind
}

// Sections lists the section names in declaration order.
func (s *Schema) Sections() []string {
	out := make([]string, len(s.sections))
	copy(out, s.sections)
	return out
}

// Collections lists the sections diffed element by element.
func (s *Schema) Collections() []Collection {
	out := make([]Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// HasSection reports whether name is part of the schema.
func (s *Schema) HasSection(name string) bool {
	_, ok := s.factories[name]
	return ok
}

// NewSection returns a fresh decode target for the named section.
func (s *Schema) NewSection(name string) (Section, bool) {
	f, ok := s.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

var (
	// MatchDetail is the schema of a single match page.
	MatchDetail = newSchema(KindMatchDetail, []sectionDef{
		{name: "matchInfo", new: func() Section { return &MatchInfo{} }},
		{name: "matchDetails", new: func() Section { return &MatchDetails{} }},
		{name: "scorers", new: func() Section { return &Scorers{} }},
		{name: "events", new: func() Section { return &Events{} }},
		{name: "stats", new: func() Section { return &Stats{} }},
		{name: "lineups", new: func() Section { return &Lineups{} }},
		{name: "predictions", new: func() Section { return &Predictions{} }},
		{name: "standings", new: func() Section { return &Standings{} }},
	})

	// MatchList is the schema of a day's match listing grouped by league.
	MatchList = newSchema(KindMatchList, []sectionDef{
		{name: "leagues", new: func() Section { return &Leagues{} }},
	}, Collection{
		Section:  "leagues",
		Children: "matches",
		Identity: func(group map[string]any) string {
			name, _ := group["name"].(string)
			return name
		},
	})
)

// ParseKind validates a configured kind string.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindMatchDetail, KindMatchList:
		return Kind(raw), nil
	default:
		return "", fmt.Errorf("unknown snapshot kind %q", raw)
	}
}

// SchemaFor returns the schema registered for kind.
func SchemaFor(kind Kind) (*Schema, error) {
	switch kind {
	case KindMatchDetail:
		return MatchDetail, nil
	case KindMatchList:
		return MatchList, nil
	default:
		return nil, fmt.Errorf("no schema for snapshot kind %q", kind)
	}
}
