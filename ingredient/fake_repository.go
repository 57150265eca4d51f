package ingredient

import (
	"context"

	"kitchen/database"
)

type fakeRepository struct {
	lastId uint64
	data   map[uint64]*Ingredient
}

func NewFakeRepository() Repository {
	data := map[uint64]*Ingredient{
		1: {Id: 1, Name: "Flour", Category: "grain", BaseUnit: "g", PackagingUnit: "sack", PackagingQuantity: 1000, CostPerPackage: 500, Stock: 5, ReorderLevel: 2, IsActive: true},
		2: {Id: 2, Name: "Milk", Category: "dairy", BaseUnit: "ml", PackagingUnit: "bottle", PackagingQuantity: 1000, CostPerPackage: 120, Stock: 10, ReorderLevel: 3, IsActive: true},
		3: {Id: 3, Name: "Saffron", Category: "spice", BaseUnit: "g", PackagingUnit: "jar", PackagingQuantity: 10, CostPerPackage: 900, Stock: 1, ReorderLevel: 1, IsActive: true},
		4: {Id: 4, Name: "Lard", Category: "meat", BaseUnit: "g", PackagingUnit: "pack", PackagingQuantity: 250, CostPerPackage: 80, Stock: 4, ReorderLevel: 1, IsActive: false},
	}
	return &fakeRepository{lastId: 4, data: data}
}

func (r *fakeRepository) FetchIngredients(ctx context.Context, activeOnly bool) ([]*Ingredient, error) {
	ingredients := make([]*Ingredient, 0)
	for _, ingredient := range r.data {
		if !activeOnly || ingredient.IsActive {
			ingredients = append(ingredients, ingredient)
		}
	}
	return ingredients, nil
}

func (r *fakeRepository) GetById(ctx context.Context, id uint64) (*Ingredient, error) {
	return r.data[id], nil
}

func (r *fakeRepository) GetByName(ctx context.Context, name string) (*Ingredient, error) {
	for _, ingredient := range r.data {
		if ingredient.Name == name {
			return ingredient, nil
		}
	}
	return nil, nil
}

func (r *fakeRepository) FetchLowStock(ctx context.Context) ([]*Ingredient, error) {
	ingredients := make([]*Ingredient, 0)
	for _, ingredient := range r.data {
		if ingredient.IsActive && ingredient.BelowReorderLevel() {
			ingredients = append(ingredients, ingredient)
		}
	}
	return ingredients, nil
}

func (r *fakeRepository) SaveIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error) {
	r.lastId++
	ingredient.Id = r.lastId
	r.data[ingredient.Id] = ingredient
	return ingredient, nil
}

func (r *fakeRepository) UpdateIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error) {
	r.data[ingredient.Id] = ingredient
	return ingredient, nil
}

func (r *fakeRepository) SetStock(tx *database.DB, id uint64, stock float64) error {
	if ingredient, ok := r.data[id]; ok {
		ingredient.Stock = stock
	}
	return nil
}
