package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a partial policy document from a YAML file. The result is a
// raw override document suitable for Merge; no defaults are applied and
// no validation is performed here.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a partial policy document from YAML bytes. An empty input
// yields an empty (all-defaults) override document.
func Parse(data []byte) (Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse policy document: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return Document(raw), nil
}
