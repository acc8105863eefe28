package devserver

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/hotnews/internal/hotnews"
)

//go:embed fixtures/catalog.yaml
var defaultCatalog []byte

// Catalog is the full set of ranked lists the dev server can serve.
type Catalog struct {
	UpdatedAt string                `yaml:"updated_at"`
	Sources   []hotnews.SourceGroup `yaml:"sources"`
}

// DefaultCatalog returns the built-in fixture.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a YAML catalog from path. An empty path returns the
// built-in fixture.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML and fills in item source ids and missing ranks
// from their group.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Sources))
	for gi := range c.Sources {
		g := &c.Sources[gi]
		g.Source = strings.TrimSpace(g.Source)
		if g.Source == "" {
			return nil, fmt.Errorf("parse catalog: group %d has no source id", gi)
		}
		if seen[g.Source] {
			return nil, fmt.Errorf("parse catalog: duplicate source %q", g.Source)
		}
		seen[g.Source] = true
		if g.SourceName == "" {
			g.SourceName = g.Source
		}
		for i := range g.Items {
			it := &g.Items[i]
			if it.Source == "" {
				it.Source = g.Source
			}
			if it.Rank == 0 {
				it.Rank = i + 1
			}
			if it.ID == "" {
				it.ID = fmt.Sprintf("%s-%d", g.Source, it.Rank)
			}
		}
	}
	return &c, nil
}

// Group returns the group for a source id.
func (c *Catalog) Group(id string) (hotnews.SourceGroup, bool) {
	for _, g := range c.Sources {
		if g.Source == id {
			return g, true
		}
	}
	return hotnews.SourceGroup{}, false
}

// Select builds a response for ids in the order given. Unknown ids are
// skipped and each group is cut to at most count items.
func (c *Catalog) Select(ids []string, count int) []hotnews.SourceGroup {
	out := make([]hotnews.SourceGroup, 0, len(ids))
	for _, id := range ids {
		g, ok := c.Group(id)
		if !ok {
			continue
		}
		items := g.Items
		if len(items) > count {
			items = items[:count]
		}
		g.Items = append([]hotnews.Item(nil), items...)
		out = append(out, g)
	}
	return out
}
