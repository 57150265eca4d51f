package ingredient_test

import (
	"context"
	"testing"

	"kitchen/ingredient"
)

func TestIngredientService(t *testing.T) {
	service := ingredient.NewService(ingredient.NewFakeRepository())

	ctx := context.Background()

	t.Run("CreateIngredient", func(t *testing.T) {
		t.Run("should reject invalid category", func(t *testing.T) {
			_, err := service.CreateIngredient(ctx, &ingredient.Ingredient{
				Name:              "Sea Salt",
				Category:          "minerals",
				BaseUnit:          "g",
				PackagingUnit:     "bag",
				PackagingQuantity: 500,
			})
			if err == nil || err.Error() != "invalid category" {
				t.Errorf("expected invalid category, got %v", err)
			}
		})

		t.Run("should reject invalid base unit", func(t *testing.T) {
			_, err := service.CreateIngredient(ctx, &ingredient.Ingredient{
				Name:              "Sea Salt",
				Category:          "spice",
				BaseUnit:          "sack",
				PackagingUnit:     "bag",
				PackagingQuantity: 500,
			})
			if err == nil || err.Error() != "invalid base unit" {
				t.Errorf("expected invalid base unit, got %v", err)
			}
		})

		t.Run("should reject invalid packaging unit", func(t *testing.T) {
			_, err := service.CreateIngredient(ctx, &ingredient.Ingredient{
				Name:              "Sea Salt",
				Category:          "spice",
				BaseUnit:          "g",
				PackagingUnit:     "g",
				PackagingQuantity: 500,
			})
			if err == nil || err.Error() != "invalid packaging unit" {
				t.Errorf("expected invalid packaging unit, got %v", err)
			}
		})

		t.Run("should reject duplicate name", func(t *testing.T) {
			_, err := service.CreateIngredient(ctx, &ingredient.Ingredient{
				Name:              "Flour",
				Category:          "grain",
				BaseUnit:          "g",
				PackagingUnit:     "sack",
				PackagingQuantity: 1000,
			})
			if err == nil || err.Error() != "ingredient already exists" {
				t.Errorf("expected ingredient already exists, got %v", err)
			}
		})

		t.Run("should create active ingredient", func(t *testing.T) {
			created, err := service.CreateIngredient(ctx, &ingredient.Ingredient{
				Name:              "Sea Salt",
				Category:          "spice",
				BaseUnit:          "g",
				PackagingUnit:     "bag",
				PackagingQuantity: 500,
				CostPerPackage:    40,
			})
			if err != nil {
				t.Fatalf("could not create ingredient: %s", err)
			}
			if created.Id == 0 {
				t.Error("should assign an id")
			}
			if !created.IsActive {
				t.Error("should create ingredient active")
			}
		})
	})

	t.Run("GetLowStock", func(t *testing.T) {
		ingredients, err := service.GetLowStock(ctx)
		if err != nil {
			t.Fatalf("could not fetch low stock: %s", err)
		}

		for _, item := range ingredients {
			if item.Stock > item.ReorderLevel {
				t.Errorf("%s is not low on stock", item.Name)
			}
			if !item.IsActive {
				t.Errorf("%s is inactive and should not be listed", item.Name)
			}
		}
	})

	t.Run("DeactivateIngredient", func(t *testing.T) {
		t.Run("should not deactivate missing ingredient", func(t *testing.T) {
			err := service.DeactivateIngredient(ctx, 1234)
			if err == nil || err.Error() != "ingredient not found" {
				t.Errorf("expected ingredient not found, got %v", err)
			}
		})

		t.Run("should deactivate, never delete", func(t *testing.T) {
			if err := service.DeactivateIngredient(ctx, 2); err != nil {
				t.Fatalf("could not deactivate ingredient: %s", err)
			}

			deactivated, err := service.GetById(ctx, 2)
			if err != nil {
				t.Fatalf("could not fetch ingredient: %s", err)
			}
			if deactivated == nil {
				t.Fatal("ingredient should still exist")
			}
			if deactivated.IsActive {
				t.Error("ingredient should be inactive")
			}
		})
	})

	t.Run("StockBaseUnits", func(t *testing.T) {
		flour, err := service.GetById(ctx, 1)
		if err != nil {
			t.Fatalf("could not fetch ingredient: %s", err)
		}

		if flour.StockBaseUnits() != 5000 {
			t.Errorf("expected %f base units, got %f", 5000.0, flour.StockBaseUnits())
		}
		if flour.CostPerBaseUnit() != 0.5 {
			t.Errorf("expected cost %f, got %f", 0.5, flour.CostPerBaseUnit())
		}
	})
}
