package meal

import (
	"context"
	"fmt"
	"math"

	"kitchen/ingredient"
	"kitchen/server"
	"kitchen/unit"
)

type (
	// Servings is the baseline every requirement quantity is
	// calibrated against: a requirement's quantity is the amount
	// needed to produce this many servings.
	Meal struct {
		Id          uint64 `db:"id" json:"id" goqu:"skipinsert,skipupdate"`
		Name        string `db:"name" json:"name" validate:"required"`
		Description string `db:"description" json:"description"`
		Servings    uint64 `db:"servings" json:"servings" validate:"required,gt=0"`
		IsActive    bool   `db:"is_active" json:"is_active"`
	}

	Requirement struct {
		Id           uint64  `db:"id" json:"id" goqu:"skipinsert,skipupdate"`
		MealId       uint64  `db:"meal_id" json:"meal_id"`
		IngredientId uint64  `db:"ingredient_id" json:"ingredient_id" validate:"required"`
		Quantity     float64 `db:"quantity" json:"quantity" validate:"required,gt=0"`
		Unit         string  `db:"unit" json:"unit"`
		IsOptional   bool    `db:"is_optional" json:"is_optional"`
		Cost         float64 `db:"cost" json:"cost"`
	}

	Availability struct {
		Available           bool     `json:"available"`
		AvailableServings   uint64   `json:"available_servings"`
		TotalCost           float64  `json:"total_cost"`
		CostPerServing      float64  `json:"cost_per_serving"`
		MissingIngredients  []string `json:"missing_ingredients"`
		LowStockIngredients []string `json:"low_stock_ingredients"`
	}

	Service interface {
		GetMeals(ctx context.Context) ([]*Meal, error)
		GetById(ctx context.Context, id uint64) (*Meal, error)
		CreateMeal(ctx context.Context, meal *Meal) (*Meal, error)
		UpdateMeal(ctx context.Context, meal *Meal) (*Meal, error)
		GetRequirements(ctx context.Context, mealId uint64) ([]*Requirement, error)
		SetRequirements(ctx context.Context, mealId uint64, requirements []*Requirement) ([]*Requirement, error)
		GetAvailability(ctx context.Context, mealId uint64) (*Availability, error)
	}

	service struct {
		repository  Repository
		ingredients ingredient.Repository
	}
)

func NewService(repository Repository, ingredients ingredient.Repository) Service {
	return &service{repository, ingredients}
}

func (s *service) GetMeals(ctx context.Context) ([]*Meal, error) {
	return s.repository.FetchMeals(ctx)
}

func (s *service) GetById(ctx context.Context, id uint64) (*Meal, error) {
	return s.repository.GetById(ctx, id)
}

func (s *service) CreateMeal(ctx context.Context, meal *Meal) (*Meal, error) {
	if meal.Servings == 0 {
		return nil, server.NewBusinessRuleError("servings must be greater than zero")
	}

	meal.IsActive = true

	return s.repository.SaveMeal(ctx, meal)
}

func (s *service) UpdateMeal(ctx context.Context, meal *Meal) (*Meal, error) {
	if meal.Servings == 0 {
		return nil, server.NewBusinessRuleError("servings must be greater than zero")
	}
	return s.repository.UpdateMeal(ctx, meal)
}

func (s *service) GetRequirements(ctx context.Context, mealId uint64) ([]*Requirement, error) {
	return s.repository.FetchRequirements(ctx, mealId)
}

// Replaces the meal's ingredient list wholesale. Requirements are
// unique per ingredient and priced at the ingredient's current cost.
func (s *service) SetRequirements(ctx context.Context, mealId uint64, requirements []*Requirement) ([]*Requirement, error) {
	meal, err := s.repository.GetById(ctx, mealId)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, server.NewBusinessRuleError("meal not found")
	}

	seen := make(map[uint64]bool)

	for _, requirement := range requirements {
		if requirement.Quantity <= 0 {
			return nil, server.NewBusinessRuleError("quantity must be greater than zero")
		}
		if seen[requirement.IngredientId] {
			return nil, server.NewBusinessRuleError("duplicate ingredient")
		}
		seen[requirement.IngredientId] = true

		owner, err := s.ingredients.GetById(ctx, requirement.IngredientId)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, server.NewBusinessRuleError("ingredient not found")
		}

		requirement.MealId = mealId
		requirement.Cost = owner.CostPerBaseUnit() * requirement.Quantity
		if requirement.Unit == "" {
			requirement.Unit = owner.BaseUnit
		}
	}

	if err := s.repository.ReplaceRequirements(ctx, mealId, requirements); err != nil {
		return nil, err
	}

	return requirements, nil
}

// Computes how many individual servings of the meal the current stock
// supports, by finding the most constraining ingredient. Read-only; a
// missing or inactive ingredient is folded into the result, not an
// error.
func (s *service) GetAvailability(ctx context.Context, mealId uint64) (*Availability, error) {
	meal, err := s.repository.GetById(ctx, mealId)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, server.NewBusinessRuleError("meal not found")
	}

	requirements, err := s.repository.FetchRequirements(ctx, mealId)
	if err != nil {
		return nil, err
	}

	availability := &Availability{
		MissingIngredients:  make([]string, 0),
		LowStockIngredients: make([]string, 0),
	}

	servings := math.Inf(1)
	constrained := false

	for _, requirement := range requirements {
		owner, err := s.ingredients.GetById(ctx, requirement.IngredientId)
		if err != nil {
			return nil, err
		}

		if owner == nil || !owner.IsActive {
			name := fmt.Sprintf("ingredient %d", requirement.IngredientId)
			if owner != nil {
				name = owner.Name
			}
			availability.MissingIngredients = append(availability.MissingIngredients, name)

			if !requirement.IsOptional {
				servings = 0
				constrained = true
			}
			continue
		}

		if owner.BelowReorderLevel() {
			availability.LowStockIngredients = append(availability.LowStockIngredients, owner.Name)
		}

		availability.TotalCost += owner.CostPerBaseUnit() * requirement.Quantity

		if requirement.IsOptional {
			continue
		}

		perServing := requirement.Quantity / float64(meal.Servings)
		possible := math.Floor(owner.StockBaseUnits()/perServing + unit.Tolerance)
		if possible < servings {
			servings = possible
		}
		constrained = true
	}

	if constrained && !math.IsInf(servings, 1) {
		availability.AvailableServings = uint64(servings)
	}

	availability.Available = availability.AvailableServings > 0
	availability.CostPerServing = availability.TotalCost / float64(meal.Servings)

	return availability, nil
}
