// Package catalog serves the storefront's vegetable list.
package catalog

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
)

// Catalog is an immutable, ID-indexed list of vegetables.
type Catalog struct {
	items []models.Vegetable
	byID  map[int]int
}

// New indexes items. Later duplicates of an ID are ignored.
func New(items []models.Vegetable) *Catalog {
	c := &Catalog{byID: make(map[int]int, len(items))}
	for _, item := range items {
		if _, ok := c.byID[item.ID]; ok {
			log.Warn().Int("id", item.ID).Msg("Duplicate catalog id ignored")
			continue
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

// FromConfig builds the built-in catalog, enriched with generated display
// data when cfg.Enrich is set.
func FromConfig(cfg models.CatalogConfig) *Catalog {
	items := Produce()
	if cfg.Enrich {
		factory := NewVegetableFactory(cfg.Seed)
		for i := range items {
			items[i] = factory.Enrich(items[i])
		}
	}
	return New(items)
}

func (c *Catalog) Get(id int) (models.Vegetable, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Vegetable{}, false
	}
	return c.items[i], true
}

// List returns the items in category, or every item when category is empty.
func (c *Catalog) List(category string) []models.Vegetable {
	out := make([]models.Vegetable, 0, len(c.items))
	for _, item := range c.items {
		if category == "" || item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range c.items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		categories = append(categories, item.Category)
	}
	sort.Strings(categories)
	return categories
}

func (c *Catalog) Len() int { return len(c.items) }
