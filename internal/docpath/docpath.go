// Package docpath addresses nodes of a decoded JSON tree with slash-delimited
// paths such as "matches/latest" or "leagues/0/matches/3".
package docpath

import (
	"strconv"
	"strings"
)

// Split breaks a path into segments. Leading, trailing and repeated slashes are
// ignored; the empty path addresses the tree root.
func Split(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Join concatenates path parts, skipping empty ones.
func Join(parts ...string) string {
	var segs []string
	for _, p := range parts {
		segs = append(segs, Split(p)...)
	}
	return strings.Join(segs, "/")
}

// Overlaps reports whether one path is an ancestor of (or equal to) the other.
func Overlaps(a, b string) bool {
	as, bs := Split(a), Split(b)
	if len(as) > len(bs) {
		as, bs = bs, as
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Get returns the node at segs, if any.
func Get(root any, segs []string) (any, bool) {
	node := root
	for _, seg := range segs {
		switch n := node.(type) {
		case map[string]any:
			next, ok := n[seg]
			if !ok {
				return nil, false
			}
			node = next
		case []any:
			idx, ok := index(seg)
			if !ok || idx >= len(n) {
				return nil, false
			}
			node = n[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

// Set writes value at segs and returns the (possibly new) root. Containers on
// the way are created as needed: a missing parent of a numeric segment becomes
// a list, anything else a map. Scalars in the way are overwritten.
func Set(root any, segs []string, value any) any {
	if len(segs) == 0 {
		return value
	}
	seg, rest := segs[0], segs[1:]
	switch n := root.(type) {
	case map[string]any:
		n[seg] = Set(n[seg], rest, value)
		return n
	case []any:
		idx, ok := index(seg)
		if !ok {
			return Set(listToMap(n), segs, value)
		}
		for len(n) <= idx {
			n = append(n, nil)
		}
		n[idx] = Set(n[idx], rest, value)
		return n
	default:
		if idx, ok := index(seg); ok {
			list := make([]any, idx+1)
			list[idx] = Set(nil, rest, value)
			return list
		}
		return map[string]any{seg: Set(nil, rest, value)}
	}
}

// Clone deep-copies maps and lists; scalars are shared.
func Clone(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, child := range n {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, child := range n {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}

func index(seg string) (int, bool) {
	idx, err := strconv.Atoi(seg)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func listToMap(list []any) map[string]any {
	out := make(map[string]any, len(list))
	for i, v := range list {
		if v != nil {
			out[strconv.Itoa(i)] = v
		}
	}
	return out
}
