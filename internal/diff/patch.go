package diff

import (
	"fmt"
	"sort"

	"github.com/preston-bernstein/football-sync-service/internal/docpath"
)

// RootPath addresses the target's base path itself.
const RootPath = "root"

// PatchSet maps paths relative to a target's base path to replacement values.
type PatchSet map[string]any

// IsEmpty reports whether there is nothing to write.
func (p PatchSet) IsEmpty() bool {
	return len(p) == 0
}

// Paths returns the patched paths in sorted order.
func (p PatchSet) Paths() []string {
	paths := make([]string, 0, len(p))
	for path := range p {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Root returns the whole-document replacement, if the set carries one.
func (p PatchSet) Root() (any, bool) {
	v, ok := p[RootPath]
	return v, ok
}

// Validate checks that no path is empty and that no two paths overlap. A root
// entry must be the only entry.
func (p PatchSet) Validate() error {
	if _, ok := p[RootPath]; ok && len(p) > 1 {
		return fmt.Errorf("patch set mixes %q with %d other entries", RootPath, len(p)-1)
	}
	paths := p.Paths()
	for i, a := range paths {
		if len(docpath.Split(a)) == 0 {
			return fmt.Errorf("patch set contains an empty path")
		}
		for _, b := range paths[i+1:] {
			if docpath.Overlaps(a, b) {
				return fmt.Errorf("patch paths %q and %q overlap", a, b)
			}
		}
	}
	return nil
}
