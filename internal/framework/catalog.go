// Package framework loads the catalog of compliance frameworks offered to clients.
// The catalog is advisory; requests may name frameworks that are not listed.
package framework

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"policyaudit/internal/model"
)

//go:embed frameworks.yaml
var defaultCatalog []byte

type catalogFile struct {
	Frameworks []model.Framework `yaml:"frameworks"`
}

// Catalog is an immutable list of frameworks.
type Catalog struct {
	items []model.Framework
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read frameworks file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Entries need a name; a missing id is derived from it.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse frameworks: %w", err)
	}
	seen := make(map[string]bool, len(f.Frameworks))
	items := make([]model.Framework, 0, len(f.Frameworks))
	for i, fw := range f.Frameworks {
		fw.Name = strings.TrimSpace(fw.Name)
		if fw.Name == "" {
			return nil, fmt.Errorf("framework %d: name is required", i)
		}
		if fw.ID == "" {
			fw.ID = slug(fw.Name)
		}
		if seen[fw.ID] {
			return nil, fmt.Errorf("framework %q: duplicate id", fw.ID)
		}
		seen[fw.ID] = true
		items = append(items, fw)
	}
	return &Catalog{items: items}, nil
}

// List returns a copy of the catalog entries.
func (c *Catalog) List() []model.Framework {
	out := make([]model.Framework, len(c.items))
	copy(out, c.items)
	return out
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
