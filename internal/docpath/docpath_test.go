package docpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitAndJoin(t *testing.T) {
	if got := Split("/matches//latest/"); len(got) != 2 || got[0] != "matches" || got[1] != "latest" {
		t.Fatalf("unexpected segments %v", got)
	}
	if got := Split(""); got != nil {
		t.Fatalf("expected root to have no segments, got %v", got)
	}
	if got := Join("matches/latest", "", "/stats"); got != "matches/latest/stats" {
		t.Fatalf("unexpected join %q", got)
	}
	if got := Join("", "stats"); got != "stats" {
		t.Fatalf("unexpected join %q", got)
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"stats", "events", false},
		{"leagues/0", "leagues/0/matches/1", true},
		{"leagues/1", "leagues/10", false},
		{"a/b", "a/b", true},
		{"", "anything", true},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a, tc.b); got != tc.want {
			t.Fatalf("Overlaps(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSetCreatesContainers(t *testing.T) {
	root := Set(nil, Split("matches/latest/leagues/1/name"), "B")
	want := map[string]any{
		"matches": map[string]any{
			"latest": map[string]any{
				"leagues": []any{nil, map[string]any{"name": "B"}},
			},
		},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestSetReplacesListElementInPlace(t *testing.T) {
	root := map[string]any{
		"leagues": []any{
			map[string]any{"name": "A", "matches": []any{"m0", "m1"}},
		},
	}
	root = Set(root, Split("leagues/0/matches/1"), "m1'").(map[string]any)
	got, ok := Get(root, Split("leagues/0/matches"))
	if !ok {
		t.Fatal("expected matches present")
	}
	if diff := cmp.Diff([]any{"m0", "m1'"}, got); diff != "" {
		t.Fatalf("unexpected matches (-want +got):\n%s", diff)
	}
}

func TestSetNonNumericSegmentOnList(t *testing.T) {
	root := Set([]any{"a", nil}, []string{"x"}, "y")
	want := map[string]any{"0": "a", "x": "y"}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	root := map[string]any{"a": []any{"x"}}
	for _, p := range []string{"b", "a/1", "a/x", "a/0/deeper"} {
		if _, ok := Get(root, Split(p)); ok {
			t.Fatalf("expected %q to be missing", p)
		}
	}
	if v, ok := Get(root, nil); !ok || v == nil {
		t.Fatal("expected root for empty path")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := map[string]any{"a": []any{map[string]any{"b": "c"}}}
	cp := Clone(orig).(map[string]any)
	cp["a"].([]any)[0].(map[string]any)["b"] = "changed"
	if orig["a"].([]any)[0].(map[string]any)["b"] != "c" {
		t.Fatal("expected clone not to share nested containers")
	}
}
