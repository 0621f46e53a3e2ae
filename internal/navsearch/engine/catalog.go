package engine

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Item is one navigable destination.
type Item struct {
	Title       string   `yaml:"title" json:"title"`
	Path        string   `yaml:"path" json:"path"`
	Description string   `yaml:"description" json:"description"`
	Category    string   `yaml:"category" json:"category"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Priority    int      `yaml:"priority" json:"priority"`
}

// ParseCatalog decodes a YAML list of destinations. Titles and paths are
// required and paths must be unique.
func ParseCatalog(data []byte) ([]Item, error) {
	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Path) == "" {
			return nil, fmt.Errorf("catalog entry %d: title and path are required", i)
		}
		if _, dup := seen[item.Path]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate path %q", i, item.Path)
		}
		seen[item.Path] = struct{}{}
	}
	return items, nil
}

var loadDefault = sync.OnceValues(func() ([]Item, error) {
	return ParseCatalog(defaultCatalogYAML)
})

// DefaultCatalog returns the built-in destinations. The slice is a copy.
func DefaultCatalog() []Item {
	items, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return slices.Clone(items)
}

// FindByPath returns the destination with the given path.
func FindByPath(catalog []Item, path string) (Item, bool) {
	for _, item := range catalog {
		if item.Path == path {
			return item, true
		}
	}
	return Item{}, false
}
