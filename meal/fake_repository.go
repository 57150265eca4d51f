package meal

import (
	"context"
)

type fakeRepository struct {
	lastId       uint64
	meals        map[uint64]*Meal
	requirements map[uint64][]*Requirement
}

func NewFakeRepository() Repository {
	meals := map[uint64]*Meal{
		1: {Id: 1, Name: "Bread", Servings: 10, IsActive: true},
		2: {Id: 2, Name: "Pancakes", Servings: 4, IsActive: true},
		3: {Id: 3, Name: "Custard", Servings: 2, IsActive: true},
	}
	requirements := map[uint64][]*Requirement{
		1: {
			{Id: 1, MealId: 1, IngredientId: 1, Quantity: 2000, Unit: "g", Cost: 1000},
		},
		2: {
			{Id: 2, MealId: 2, IngredientId: 1, Quantity: 400, Unit: "g", Cost: 200},
			{Id: 3, MealId: 2, IngredientId: 2, Quantity: 800, Unit: "ml", Cost: 96},
			{Id: 4, MealId: 2, IngredientId: 3, Quantity: 2, Unit: "g", Cost: 180, IsOptional: true},
		},
		3: {
			{Id: 5, MealId: 3, IngredientId: 2, Quantity: 300, Unit: "ml", Cost: 36},
			{Id: 6, MealId: 3, IngredientId: 99, Quantity: 50, Unit: "g", Cost: 0},
		},
	}
	return &fakeRepository{lastId: 6, meals: meals, requirements: requirements}
}

func (r *fakeRepository) FetchMeals(ctx context.Context) ([]*Meal, error) {
	meals := make([]*Meal, 0)
	for _, meal := range r.meals {
		meals = append(meals, meal)
	}
	return meals, nil
}

func (r *fakeRepository) GetById(ctx context.Context, id uint64) (*Meal, error) {
	return r.meals[id], nil
}

func (r *fakeRepository) SaveMeal(ctx context.Context, meal *Meal) (*Meal, error) {
	r.lastId++
	meal.Id = r.lastId
	r.meals[meal.Id] = meal
	return meal, nil
}

func (r *fakeRepository) UpdateMeal(ctx context.Context, meal *Meal) (*Meal, error) {
	r.meals[meal.Id] = meal
	return meal, nil
}

func (r *fakeRepository) FetchRequirements(ctx context.Context, mealId uint64) ([]*Requirement, error) {
	return r.requirements[mealId], nil
}

func (r *fakeRepository) ReplaceRequirements(ctx context.Context, mealId uint64, requirements []*Requirement) error {
	for _, requirement := range requirements {
		r.lastId++
		requirement.Id = r.lastId
	}
	r.requirements[mealId] = requirements
	return nil
}
