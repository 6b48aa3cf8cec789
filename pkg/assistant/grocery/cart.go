package grocery

import (
	"sort"
	"strings"
	"time"
)

// Cart is the per-room record: item id → quantity plus customer details.
type Cart struct {
	Items        map[string]int `json:"items"`
	CustomerName string         `json:"customer_name"`
	Address      string         `json:"address"`
	CreatedAt    string         `json:"created_at"`
}

// NewCart returns an empty cart stamped with the current UTC time.
func NewCart() *Cart {
	return &Cart{
		Items:     make(map[string]int),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Add increments the line for itemID. Quantities below one are treated as one;
// adding an item already in the cart grows its line rather than duplicating it.
func (c *Cart) Add(itemID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	c.Items[itemID] += qty
}

// Remove deletes the line for itemID entirely, reporting whether it existed.
func (c *Cart) Remove(itemID string) bool {
	if _, ok := c.Items[itemID]; !ok {
		return false
	}
	delete(c.Items, itemID)
	return true
}

// SetQuantity sets the absolute quantity for itemID. A quantity of zero or
// less removes the line; the cart never stores a non-positive count.
func (c *Cart) SetQuantity(itemID string, qty int) {
	if qty <= 0 {
		delete(c.Items, itemID)
		return
	}
	c.Items[itemID] = qty
}

// SetCustomer applies optional customer details; empty values change nothing.
func (c *Cart) SetCustomer(name, address string) bool {
	changed := false
	if v := strings.TrimSpace(name); v != "" {
		c.CustomerName = v
		changed = true
	}
	if v := strings.TrimSpace(address); v != "" {
		c.Address = v
		changed = true
	}
	return changed
}

// Missing returns the fields required before checkout.
func (c *Cart) Missing() []string {
	if len(c.Items) == 0 {
		return []string{"items"}
	}
	return nil
}

// Clone returns a deep copy safe to use outside the store lock.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Items = make(map[string]int, len(c.Items))
	for id, qty := range c.Items {
		out.Items[id] = qty
	}
	return &out
}

// Line is one priced cart row.
type Line struct {
	Item     Item
	Quantity int
	Subtotal int
}

// Lines prices the cart against cat, ordered by item id for determinism, and
// returns the rows with the grand total.
func (c *Cart) Lines(cat *Catalog) ([]Line, int) {
	ids := make([]string, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]Line, 0, len(ids))
	total := 0
	for _, id := range ids {
		item, ok := cat.Item(id)
		if !ok {
			continue
		}
		qty := c.Items[id]
		subtotal := item.Price * qty
		total += subtotal
		lines = append(lines, Line{Item: item, Quantity: qty, Subtotal: subtotal})
	}
	return lines, total
}
