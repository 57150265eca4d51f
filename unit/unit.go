package unit

import (
	"math"
	"slices"
)

// Tolerance for comparing base-unit quantities, which accumulate
// floating point error through proportional scaling.
const Tolerance = 1e-6

var Categories = []string{
	"vegetable", "fruit", "meat", "dairy", "grain", "spice", "herb", "other",
}

var BaseUnits = []string{
	"g", "kg", "ml", "l", "tbsp", "tsp", "cup", "piece", "slice", "whole",
}

var PackagingUnits = []string{
	"sack", "bag", "box", "bottle", "can", "jar", "pack", "bundle", "carton", "piece", "whole",
}

func ValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

func ValidBaseUnit(unit string) bool {
	return slices.Contains(BaseUnits, unit)
}

func ValidPackagingUnit(unit string) bool {
	return slices.Contains(PackagingUnits, unit)
}

// Converts a package count to base units. The factor is the
// ingredient's packaging quantity (base units per package).
func PackagesToBase(qty, factor float64) float64 {
	return qty * factor
}

// Converts a base-unit quantity to the number of whole packages
// needed to cover it.
func BaseToPackages(qty, factor float64) float64 {
	return math.Ceil(qty / factor)
}

func CostPerBase(costPerPackage, factor float64) float64 {
	return costPerPackage / factor
}
