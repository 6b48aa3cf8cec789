// Package grocery implements the food and grocery ordering assistant: a
// per-room cart over a static catalog, with recipe shortcuts and an order
// ledger written on checkout.
package grocery

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Item is one catalog entry. Prices are whole currency units.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Unit  string `json:"unit,omitempty"`
}

// Recipe maps a named dish to the catalog items it needs.
type Recipe struct {
	ID    string   `json:"id"`
	Name  string   `json:"name,omitempty"`
	Items []string `json:"items"`
}

// Catalog is the static reference dataset loaded once at process start.
type Catalog struct {
	StoreName string   `json:"store_name"`
	Currency  string   `json:"currency"`
	Items     []Item   `json:"items"`
	Recipes   []Recipe `json:"recipes"`

	byID map[string]Item
}

const (
	defaultStoreName = "QuickKart Fresh"
	defaultCurrency  = "INR"
)

// ParseCatalog decodes and indexes a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("catalog has no items")
	}
	if c.StoreName == "" {
		c.StoreName = defaultStoreName
	}
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	c.byID = make(map[string]Item, len(c.Items))
	for _, item := range c.Items {
		c.byID[item.ID] = item
	}
	return &c, nil
}

// LoadCatalog reads the catalog from path. A missing file is fatal at
// startup; the assistant cannot serve without its reference data.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	return ParseCatalog(data)
}

// Item returns the catalog item with the given id.
func (c *Catalog) Item(id string) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// FindItemByName matches a spoken item name against the catalog by
// case-insensitive substring containment, in catalog order.
func (c *Catalog) FindItemByName(name string) (Item, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Item{}, false
	}
	for _, item := range c.Items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			return item, true
		}
	}
	return Item{}, false
}

// Phrase-to-recipe rules, checked in order; first match wins.
var recipePhrases = []struct {
	keywords []string
	recipeID string
}{
	{[]string{"peanut butter sandwich", "peanut butter"}, "pb_sandwich"},
	{[]string{"pasta"}, "pasta_for_two"},
	{[]string{"breakfast"}, "simple_breakfast"},
}

// RecipeItems resolves a free-text "ingredients for X" phrase to the item ids
// of a known recipe. An unrecognized phrase returns nil.
func (c *Catalog) RecipeItems(phrase string) []string {
	p := strings.ToLower(phrase)
	for _, rule := range recipePhrases {
		for _, kw := range rule.keywords {
			if strings.Contains(p, kw) {
				return c.recipeItemIDs(rule.recipeID)
			}
		}
	}
	return nil
}

func (c *Catalog) recipeItemIDs(recipeID string) []string {
	for _, r := range c.Recipes {
		if r.ID == recipeID {
			return r.Items
		}
	}
	return nil
}
