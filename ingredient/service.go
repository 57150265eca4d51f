package ingredient

import (
	"context"

	"kitchen/server"
	"kitchen/unit"
)

type (
	// A purchasable, perishable kitchen ingredient. Stock is held in
	// packages and is a cached projection of the ingredient's
	// non-expired batches, recomputed after every batch mutation.
	Ingredient struct {
		Id                uint64  `db:"id" json:"id" goqu:"skipinsert,skipupdate"`
		Name              string  `db:"name" json:"name" validate:"required"`
		Category          string  `db:"category" json:"category" validate:"required"`
		BaseUnit          string  `db:"base_unit" json:"base_unit" validate:"required"`
		PackagingUnit     string  `db:"packaging_unit" json:"packaging_unit" validate:"required"`
		PackagingQuantity float64 `db:"packaging_quantity" json:"packaging_quantity" validate:"required,gt=0"`
		CostPerPackage    float64 `db:"cost_per_package" json:"cost_per_package" validate:"gte=0"`
		Stock             float64 `db:"stock" json:"stock" validate:"gte=0"`
		ReorderLevel      float64 `db:"reorder_level" json:"reorder_level" validate:"gte=0"`
		IsActive          bool    `db:"is_active" json:"is_active"`
	}

	Service interface {
		GetIngredients(ctx context.Context, activeOnly bool) ([]*Ingredient, error)
		GetById(ctx context.Context, id uint64) (*Ingredient, error)
		GetLowStock(ctx context.Context) ([]*Ingredient, error)
		CreateIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error)
		UpdateIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error)
		DeactivateIngredient(ctx context.Context, id uint64) error
	}

	service struct {
		repository Repository
	}
)

// Current stock expressed in base units.
func (i *Ingredient) StockBaseUnits() float64 {
	return unit.PackagesToBase(i.Stock, i.PackagingQuantity)
}

func (i *Ingredient) CostPerBaseUnit() float64 {
	return unit.CostPerBase(i.CostPerPackage, i.PackagingQuantity)
}

func (i *Ingredient) BelowReorderLevel() bool {
	return i.Stock <= i.ReorderLevel
}

func NewService(repository Repository) Service {
	return &service{repository}
}

func (s *service) GetIngredients(ctx context.Context, activeOnly bool) ([]*Ingredient, error) {
	return s.repository.FetchIngredients(ctx, activeOnly)
}

func (s *service) GetById(ctx context.Context, id uint64) (*Ingredient, error) {
	return s.repository.GetById(ctx, id)
}

func (s *service) GetLowStock(ctx context.Context) ([]*Ingredient, error) {
	return s.repository.FetchLowStock(ctx)
}

func (s *service) CreateIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error) {
	if err := validateUnits(ingredient); err != nil {
		return nil, err
	}

	existing, err := s.repository.GetByName(ctx, ingredient.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, server.NewBusinessRuleError("ingredient already exists")
	}

	ingredient.IsActive = true

	return s.repository.SaveIngredient(ctx, ingredient)
}

func (s *service) UpdateIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error) {
	if err := validateUnits(ingredient); err != nil {
		return nil, err
	}
	return s.repository.UpdateIngredient(ctx, ingredient)
}

// Ingredients are never deleted, only deactivated, so batches and
// meal requirements keep a valid reference.
func (s *service) DeactivateIngredient(ctx context.Context, id uint64) error {
	ingredient, err := s.repository.GetById(ctx, id)
	if err != nil {
		return err
	}
	if ingredient == nil {
		return server.NewBusinessRuleError("ingredient not found")
	}

	ingredient.IsActive = false
	_, err = s.repository.UpdateIngredient(ctx, ingredient)

	return err
}

func validateUnits(ingredient *Ingredient) error {
	if !unit.ValidCategory(ingredient.Category) {
		return server.NewBusinessRuleError("invalid category")
	}
	if !unit.ValidBaseUnit(ingredient.BaseUnit) {
		return server.NewBusinessRuleError("invalid base unit")
	}
	if !unit.ValidPackagingUnit(ingredient.PackagingUnit) {
		return server.NewBusinessRuleError("invalid packaging unit")
	}
	if ingredient.PackagingQuantity <= 0 {
		return server.NewBusinessRuleError("packaging quantity must be greater than zero")
	}
	return nil
}
