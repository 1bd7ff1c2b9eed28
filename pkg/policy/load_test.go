package policy

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse_PartialDocument(t *testing.T) {
	doc, err := Parse([]byte(`
limits:
  users:
    alice: [GET, POST]
    bob: defaults
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := Document{
		"limits": map[string]any{
			"users": map[string]any{
				"alice": []any{"GET", "POST"},
				"bob":   "defaults",
			},
		},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("Parse() = %#v, want %#v", doc, want)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	doc, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc == nil || len(doc) != 0 {
		t.Errorf("empty input should yield an empty document, got %#v", doc)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("limits: [unclosed\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("limits:\n  defaults: [GET]\n"), 0o640); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(doc["limits"], map[string]any{"defaults": []any{"GET"}}) {
		t.Errorf("Load() = %#v", doc)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
