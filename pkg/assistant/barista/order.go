// Package barista implements the coffee-ordering assistant: a per-room order
// record filled in across the conversation and saved to an orders ledger once
// complete.
package barista

import (
	"strings"
	"time"
)

// Order is the record one conversation builds toward. Unset fields marshal as
// empty values; the mutator never writes an empty value over a known one.
type Order struct {
	DrinkType string   `json:"drinkType"`
	Size      string   `json:"size"`
	Milk      string   `json:"milk"`
	Extras    []string `json:"extras"`
	Name      string   `json:"name"`
	CreatedAt string   `json:"created_at"`
}

// NewOrder returns an empty order stamped with the current UTC time.
func NewOrder() *Order {
	return &Order{
		Extras:    []string{},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Patch carries optional field updates. Empty strings and nil slices mean
// "no change"; partial updates never regress already-known information.
type Patch struct {
	DrinkType string
	Size      string
	Milk      string
	Extras    []string
	Name      string
}

// Apply merges p into o and reports whether anything actually changed.
// Strings are trimmed, the milk variant collapses its " milk" suffix, and
// extras are deduplicated before appending.
func (o *Order) Apply(p Patch) bool {
	changed := false
	if v := strings.TrimSpace(p.DrinkType); v != "" {
		o.DrinkType = v
		changed = true
	}
	if v := strings.TrimSpace(p.Size); v != "" {
		o.Size = v
		changed = true
	}
	if v := NormalizeMilk(p.Milk); v != "" {
		o.Milk = v
		changed = true
	}
	for _, extra := range p.Extras {
		extra = strings.TrimSpace(extra)
		if extra == "" || o.hasExtra(extra) {
			continue
		}
		o.Extras = append(o.Extras, extra)
		changed = true
	}
	if v := strings.TrimSpace(p.Name); v != "" {
		o.Name = v
		changed = true
	}
	return changed
}

func (o *Order) hasExtra(extra string) bool {
	for _, have := range o.Extras {
		if strings.EqualFold(have, extra) {
			return true
		}
	}
	return false
}

// NormalizeMilk trims the value and collapses a trailing " milk" to the base
// variant, so "oat milk" and "Oat" store the same way.
func NormalizeMilk(s string) string {
	s = strings.TrimSpace(s)
	if lower := strings.ToLower(s); strings.HasSuffix(lower, " milk") {
		s = strings.TrimSpace(s[:len(s)-len(" milk")])
	}
	return s
}

// requiredFields gates persistence; extras stay optional.
var requiredFields = []struct {
	name  string
	value func(*Order) string
}{
	{"drinkType", func(o *Order) string { return o.DrinkType }},
	{"size", func(o *Order) string { return o.Size }},
	{"milk", func(o *Order) string { return o.Milk }},
	{"name", func(o *Order) string { return o.Name }},
}

// Missing returns the required fields that are still unset, in schema order.
func (o *Order) Missing() []string {
	var missing []string
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(o)) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Clone returns a deep copy safe to use outside the store lock.
func (o *Order) Clone() *Order {
	out := *o
	out.Extras = append([]string(nil), o.Extras...)
	return &out
}
