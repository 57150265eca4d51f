package unit_test

import (
	"testing"

	"kitchen/unit"
)

func TestConversions(t *testing.T) {
	t.Run("packages to base", func(t *testing.T) {
		if qty := unit.PackagesToBase(5, 1000); qty != 5000 {
			t.Errorf("expected %f, got %f", 5000.0, qty)
		}
		if qty := unit.PackagesToBase(0.5, 1000); qty != 500 {
			t.Errorf("expected %f, got %f", 500.0, qty)
		}
	})

	t.Run("base to packages rounds up", func(t *testing.T) {
		if qty := unit.BaseToPackages(1001, 1000); qty != 2 {
			t.Errorf("expected %f, got %f", 2.0, qty)
		}
		if qty := unit.BaseToPackages(1000, 1000); qty != 1 {
			t.Errorf("expected %f, got %f", 1.0, qty)
		}
	})

	t.Run("cost per base", func(t *testing.T) {
		if cost := unit.CostPerBase(500, 1000); cost != 0.5 {
			t.Errorf("expected %f, got %f", 0.5, cost)
		}
	})
}

func TestClosedSets(t *testing.T) {
	t.Run("categories", func(t *testing.T) {
		if !unit.ValidCategory("grain") {
			t.Error("grain should be a valid category")
		}
		if unit.ValidCategory("minerals") {
			t.Error("minerals should not be a valid category")
		}
	})

	t.Run("base units", func(t *testing.T) {
		if !unit.ValidBaseUnit("ml") {
			t.Error("ml should be a valid base unit")
		}
		if unit.ValidBaseUnit("sack") {
			t.Error("sack should not be a valid base unit")
		}
	})

	t.Run("packaging units", func(t *testing.T) {
		if !unit.ValidPackagingUnit("sack") {
			t.Error("sack should be a valid packaging unit")
		}
		if unit.ValidPackagingUnit("g") {
			t.Error("g should not be a valid packaging unit")
		}
	})
}
