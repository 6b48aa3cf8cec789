package barista

import (
	"reflect"
	"testing"
)

func TestApply_PartialPatchNeverErasesKnownFields(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{DrinkType: "Latte", Size: "large"})

	// A later patch with only a name must leave drink and size alone.
	changed := o.Apply(Patch{Name: "Sarah"})
	if !changed {
		t.Fatalf("Apply() = false, want true")
	}
	if o.DrinkType != "Latte" || o.Size != "large" || o.Name != "Sarah" {
		t.Fatalf("order = %+v", o)
	}
}

func TestApply_EmptyPatchIsNoOp(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{DrinkType: "Mocha"})

	if o.Apply(Patch{}) {
		t.Fatalf("empty patch reported a change")
	}
	if o.Apply(Patch{DrinkType: "  ", Name: ""}) {
		t.Fatalf("whitespace patch reported a change")
	}
	if o.DrinkType != "Mocha" {
		t.Fatalf("DrinkType = %q, want Mocha", o.DrinkType)
	}
}

func TestApply_OverwriteWithNewValue(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{Size: "small"})
	o.Apply(Patch{Size: "large"})
	if o.Size != "large" {
		t.Fatalf("Size = %q, want large", o.Size)
	}
}

func TestApply_MilkSuffixCollapses(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{Milk: "oat milk"})
	if o.Milk != "oat" {
		t.Fatalf("Milk = %q, want oat", o.Milk)
	}
	o.Apply(Patch{Milk: "Almond Milk"})
	if o.Milk != "Almond" {
		t.Fatalf("Milk = %q, want Almond", o.Milk)
	}
}

func TestApply_ExtrasDedupeAndAccumulate(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{Extras: []string{"caramel"}})
	o.Apply(Patch{Extras: []string{"Caramel", "extra shot"}})

	want := []string{"caramel", "extra shot"}
	if !reflect.DeepEqual(o.Extras, want) {
		t.Fatalf("Extras = %v, want %v", o.Extras, want)
	}
}

func TestMissing_ReportsUnsetRequiredFields(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{DrinkType: "Latte", Size: "large", Milk: "oat"})

	want := []string{"name"}
	if got := o.Missing(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing() = %v, want %v", got, want)
	}

	o.Apply(Patch{Name: "Sarah"})
	if got := o.Missing(); len(got) != 0 {
		t.Fatalf("Missing() = %v, want none", got)
	}
}

func TestMissing_ExtrasAreOptional(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{DrinkType: "Americano", Size: "small", Milk: "regular", Name: "Leo"})
	if got := o.Missing(); len(got) != 0 {
		t.Fatalf("Missing() = %v, extras must not gate saving", got)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	o := NewOrder()
	o.Apply(Patch{DrinkType: "Latte", Extras: []string{"vanilla"}})

	c := o.Clone()
	c.Apply(Patch{DrinkType: "Mocha", Extras: []string{"caramel"}})

	if o.DrinkType != "Latte" || len(o.Extras) != 1 {
		t.Fatalf("clone mutated the original: %+v", o)
	}
}
