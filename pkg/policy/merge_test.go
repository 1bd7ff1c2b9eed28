package policy

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func TestMerge_OverrideWins(t *testing.T) {
	tests := []struct {
		name     string
		base     Document
		override Document
		want     Document
	}{
		{
			name:     "empty override keeps base",
			base:     Document{"a": "x", "b": map[string]any{"c": 1}},
			override: Document{},
			want:     Document{"a": "x", "b": map[string]any{"c": 1}},
		},
		{
			name:     "scalar override replaces",
			base:     Document{"a": "x"},
			override: Document{"a": "y"},
			want:     Document{"a": "y"},
		},
		{
			name:     "nested maps merge recursively",
			base:     Document{"m": map[string]any{"keep": 1, "replace": 2}},
			override: Document{"m": map[string]any{"replace": 3, "add": 4}},
			want:     Document{"m": map[string]any{"keep": 1, "replace": 3, "add": 4}},
		},
		{
			name:     "lists replaced wholesale, never concatenated",
			base:     Document{"ops": []any{"GET", "POST", "PUT"}},
			override: Document{"ops": []any{"GET"}},
			want:     Document{"ops": []any{"GET"}},
		},
		{
			name:     "map replaced by scalar",
			base:     Document{"m": map[string]any{"a": 1}},
			override: Document{"m": "flat"},
			want:     Document{"m": "flat"},
		},
		{
			name:     "scalar replaced by map",
			base:     Document{"m": "flat"},
			override: Document{"m": map[string]any{"a": 1}},
			want:     Document{"m": map[string]any{"a": 1}},
		},
		{
			name:     "override-only keys added",
			base:     Document{"a": 1},
			override: Document{"b": 2},
			want:     Document{"a": 1, "b": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.override)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Document{"m": map[string]any{"a": 1}, "l": []any{"GET"}}
	override := Document{"m": map[string]any{"b": 2}}

	merged := Merge(base, override)

	merged["m"].(map[string]any)["a"] = 99
	merged["l"].([]any)[0] = "DELETE"

	if base["m"].(map[string]any)["a"] != 1 {
		t.Error("merge result shares map state with base")
	}
	if base["l"].([]any)[0] != "GET" {
		t.Error("merge result shares slice state with base")
	}
	if _, ok := base["m"].(map[string]any)["b"]; ok {
		t.Error("merge mutated base map")
	}
}

func TestMerge_TotalOnInvalidShapes(t *testing.T) {
	// Merge must succeed on structurally invalid documents; validation is
	// a separate step.
	base := DefaultDocument()
	override := Document{
		"methods": "not a map",
		"limits":  map[string]any{"hosts": []any{"not", "a", "map"}},
	}

	got := Merge(base, override)
	if got["methods"] != "not a map" {
		t.Errorf("override scalar should replace base map, got %#v", got["methods"])
	}
}

// randomDocument builds a deterministic pseudo-random nested document.
func randomDocument(r *rand.Rand, depth int) map[string]any {
	doc := make(map[string]any)
	for i := 0; i < 1+r.Intn(4); i++ {
		key := fmt.Sprintf("k%d", r.Intn(6))
		switch {
		case depth > 0 && r.Intn(2) == 0:
			doc[key] = randomDocument(r, depth-1)
		case r.Intn(2) == 0:
			doc[key] = []any{fmt.Sprintf("v%d", r.Intn(10))}
		default:
			doc[key] = r.Intn(100)
		}
	}
	return doc
}

// assertOverridePaths checks that merged equals override on every key path
// present in override (with map values merged recursively).
func assertOverridePaths(t *testing.T, path string, merged, override map[string]any) {
	t.Helper()
	for k, ov := range override {
		p := path + "." + k
		mv, ok := merged[k]
		if !ok {
			t.Fatalf("%s: key present in override missing from merge result", p)
		}
		if om, isMap := ov.(map[string]any); isMap {
			if mm, alsoMap := mv.(map[string]any); alsoMap {
				assertOverridePaths(t, p, mm, om)
				continue
			}
		}
		if !reflect.DeepEqual(mv, ov) {
			t.Fatalf("%s: merged=%#v, override=%#v", p, mv, ov)
		}
	}
}

func TestMerge_PropertyOverridePrecedence(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		base := randomDocument(r, 3)
		override := randomDocument(r, 3)
		merged := Merge(Document(base), Document(override))
		assertOverridePaths(t, "$", merged, override)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		base := Document(randomDocument(r, 3))
		override := Document(randomDocument(r, 3))

		once := Merge(base, override)
		twice := Merge(once, override)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("merge not idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
		}
	}
}
