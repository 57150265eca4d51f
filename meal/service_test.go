package meal_test

import (
	"context"
	"math"
	"testing"

	"kitchen/ingredient"
	"kitchen/meal"
)

func TestMealService(t *testing.T) {
	ingredients := ingredient.NewFakeRepository()
	service := meal.NewService(meal.NewFakeRepository(), ingredients)

	ctx := context.Background()

	var porridge *meal.Meal

	t.Run("CreateMeal", func(t *testing.T) {
		t.Run("should reject zero servings", func(t *testing.T) {
			_, err := service.CreateMeal(ctx, &meal.Meal{Name: "Porridge"})
			if err == nil || err.Error() != "servings must be greater than zero" {
				t.Errorf("expected servings must be greater than zero, got %v", err)
			}
		})

		t.Run("should create active meal", func(t *testing.T) {
			created, err := service.CreateMeal(ctx, &meal.Meal{Name: "Porridge", Servings: 6})
			if err != nil {
				t.Fatalf("could not create meal: %s", err)
			}
			if created.Id == 0 {
				t.Error("should assign an id")
			}
			if !created.IsActive {
				t.Error("should create meal active")
			}

			porridge = created
		})
	})

	t.Run("SetRequirements", func(t *testing.T) {
		t.Run("should reject unknown meal", func(t *testing.T) {
			_, err := service.SetRequirements(ctx, 1234, nil)
			if err == nil || err.Error() != "meal not found" {
				t.Errorf("expected meal not found, got %v", err)
			}
		})

		t.Run("should reject non-positive quantity", func(t *testing.T) {
			_, err := service.SetRequirements(ctx, 1, []*meal.Requirement{
				{IngredientId: 1, Quantity: 0},
			})
			if err == nil || err.Error() != "quantity must be greater than zero" {
				t.Errorf("expected quantity must be greater than zero, got %v", err)
			}
		})

		t.Run("should reject duplicate ingredient", func(t *testing.T) {
			_, err := service.SetRequirements(ctx, 1, []*meal.Requirement{
				{IngredientId: 1, Quantity: 100},
				{IngredientId: 1, Quantity: 200},
			})
			if err == nil || err.Error() != "duplicate ingredient" {
				t.Errorf("expected duplicate ingredient, got %v", err)
			}
		})

		t.Run("should reject unknown ingredient", func(t *testing.T) {
			_, err := service.SetRequirements(ctx, 1, []*meal.Requirement{
				{IngredientId: 1234, Quantity: 100},
			})
			if err == nil || err.Error() != "ingredient not found" {
				t.Errorf("expected ingredient not found, got %v", err)
			}
		})

		t.Run("should price requirements and default the unit", func(t *testing.T) {
			requirements, err := service.SetRequirements(ctx, porridge.Id, []*meal.Requirement{
				{IngredientId: 1, Quantity: 600},
				{IngredientId: 2, Quantity: 1200, Unit: "ml"},
			})
			if err != nil {
				t.Fatalf("could not set requirements: %s", err)
			}

			if len(requirements) != 2 {
				t.Fatalf("expected %d requirements, got %d", 2, len(requirements))
			}
			if requirements[0].Cost != 300 {
				t.Errorf("expected cost %f, got %f", 300.0, requirements[0].Cost)
			}
			if requirements[0].Unit != "g" {
				t.Errorf("expected unit %s, got %s", "g", requirements[0].Unit)
			}
			if requirements[1].Cost != 144 {
				t.Errorf("expected cost %f, got %f", 144.0, requirements[1].Cost)
			}

			saved, err := service.GetRequirements(ctx, porridge.Id)
			if err != nil {
				t.Fatalf("could not fetch requirements: %s", err)
			}
			if len(saved) != 2 {
				t.Errorf("expected %d requirements, got %d", 2, len(saved))
			}
		})
	})

	t.Run("GetAvailability", func(t *testing.T) {
		t.Run("should reject unknown meal", func(t *testing.T) {
			_, err := service.GetAvailability(ctx, 1234)
			if err == nil || err.Error() != "meal not found" {
				t.Errorf("expected meal not found, got %v", err)
			}
		})

		t.Run("should compute servings from the constraining ingredient", func(t *testing.T) {
			availability, err := service.GetAvailability(ctx, 1)
			if err != nil {
				t.Fatalf("could not compute availability: %s", err)
			}

			if !availability.Available {
				t.Error("expected meal to be available")
			}
			if availability.AvailableServings != 25 {
				t.Errorf("expected %d servings, got %d", 25, availability.AvailableServings)
			}
			if availability.TotalCost != 1000 {
				t.Errorf("expected total cost %f, got %f", 1000.0, availability.TotalCost)
			}
			if availability.CostPerServing != 100 {
				t.Errorf("expected cost per serving %f, got %f", 100.0, availability.CostPerServing)
			}
		})

		t.Run("optional ingredients add cost but never constrain", func(t *testing.T) {
			availability, err := service.GetAvailability(ctx, 2)
			if err != nil {
				t.Fatalf("could not compute availability: %s", err)
			}

			// Saffron stock supports only 5 optional portions, yet the
			// pancakes are limited by flour and milk alone.
			if availability.AvailableServings != 50 {
				t.Errorf("expected %d servings, got %d", 50, availability.AvailableServings)
			}
			if availability.TotalCost != 476 {
				t.Errorf("expected total cost %f, got %f", 476.0, availability.TotalCost)
			}
			if len(availability.LowStockIngredients) != 1 || availability.LowStockIngredients[0] != "Saffron" {
				t.Errorf("expected low stock [Saffron], got %v", availability.LowStockIngredients)
			}
		})

		t.Run("missing ingredient zeroes availability", func(t *testing.T) {
			availability, err := service.GetAvailability(ctx, 3)
			if err != nil {
				t.Fatalf("could not compute availability: %s", err)
			}

			if availability.Available {
				t.Error("expected meal to be unavailable")
			}
			if availability.AvailableServings != 0 {
				t.Errorf("expected %d servings, got %d", 0, availability.AvailableServings)
			}
			if len(availability.MissingIngredients) != 1 || availability.MissingIngredients[0] != "ingredient 99" {
				t.Errorf("expected missing [ingredient 99], got %v", availability.MissingIngredients)
			}
		})

		t.Run("inactive ingredient counts as missing", func(t *testing.T) {
			created, err := service.CreateMeal(ctx, &meal.Meal{Name: "Rillettes", Servings: 2})
			if err != nil {
				t.Fatalf("could not create meal: %s", err)
			}

			if _, err := service.SetRequirements(ctx, created.Id, []*meal.Requirement{
				{IngredientId: 4, Quantity: 500},
			}); err != nil {
				t.Fatalf("could not set requirements: %s", err)
			}

			availability, err := service.GetAvailability(ctx, created.Id)
			if err != nil {
				t.Fatalf("could not compute availability: %s", err)
			}

			if availability.AvailableServings != 0 {
				t.Errorf("expected %d servings, got %d", 0, availability.AvailableServings)
			}
			if len(availability.MissingIngredients) != 1 || availability.MissingIngredients[0] != "Lard" {
				t.Errorf("expected missing [Lard], got %v", availability.MissingIngredients)
			}
		})

		t.Run("fractional servings round down", func(t *testing.T) {
			if _, err := service.SetRequirements(ctx, porridge.Id, []*meal.Requirement{
				{IngredientId: 3, Quantity: 3},
			}); err != nil {
				t.Fatalf("could not set requirements: %s", err)
			}

			availability, err := service.GetAvailability(ctx, porridge.Id)
			if err != nil {
				t.Fatalf("could not compute availability: %s", err)
			}

			// 10g of saffron at 0.5g per serving of 6 should not be
			// inflated by float noise.
			expected := uint64(math.Floor(10 / 0.5))
			if availability.AvailableServings != expected {
				t.Errorf("expected %d servings, got %d", expected, availability.AvailableServings)
			}
		})
	})
}
