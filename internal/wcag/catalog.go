package wcag

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/Sena-ops/a11yguard/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

type Criterion struct {
	ID    string      `yaml:"id" json:"id"`
	Level model.Level `yaml:"level" json:"level"`
	Title string      `yaml:"title" json:"title"`
}

// Catalog é a tabela de referência, somente leitura, dos critérios de sucesso.
type Catalog struct {
	version  string
	criteria []Criterion
	index    map[string]int
}

type catalogFile struct {
	Version  string      `yaml:"version"`
	Criteria []Criterion `yaml:"criteria"`
}

// NewCatalog valida ids e níveis e monta o índice.
func NewCatalog(version string, criteria []Criterion) (*Catalog, error) {
	c := &Catalog{
		version:  version,
		criteria: make([]Criterion, 0, len(criteria)),
		index:    make(map[string]int, len(criteria)),
	}
	for _, cr := range criteria {
		id, ok := NormalizeCriterion(cr.ID)
		if !ok {
			return nil, fmt.Errorf("critério inválido %q", cr.ID)
		}
		switch cr.Level {
		case model.LevelA, model.LevelAA, model.LevelAAA:
		default:
			return nil, fmt.Errorf("critério %s com nível inválido %q", id, cr.Level)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("critério duplicado %s", id)
		}
		cr.ID = id
		c.index[id] = len(c.criteria)
		c.criteria = append(c.criteria, cr)
	}
	return c, nil
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse do catálogo: %w", err)
	}
	return NewCatalog(doc.Version, doc.Criteria)
}

func LoadCatalogFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadCatalog(b)
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog devolve o catálogo WCAG 2.1 embutido (78 critérios).
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := LoadCatalog(catalogYAML)
		if err != nil {
			panic("catálogo WCAG embutido inválido: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) Len() int { return len(c.criteria) }

// Criteria devolve uma cópia, na ordem do catálogo.
func (c *Catalog) Criteria() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

func (c *Catalog) Lookup(id string) (Criterion, bool) {
	i, ok := c.index[id]
	if !ok {
		return Criterion{}, false
	}
	return c.criteria[i], true
}

func (c *Catalog) Count(level model.Level) int {
	n := 0
	for _, cr := range c.criteria {
		if cr.Level == level {
			n++
		}
	}
	return n
}
