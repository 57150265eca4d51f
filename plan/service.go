package plan

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"kitchen/ingredient"
	"kitchen/logger"
	"kitchen/meal"
	"kitchen/notification"
	"kitchen/server"
	"kitchen/unit"

	"go.uber.org/zap"
)

type (
	// One line of a meal plan. Servings is what the kitchen intends
	// to produce and may differ from the meal's defined baseline.
	Entry struct {
		Id       uint64 `db:"id" json:"id" goqu:"skipinsert,skipupdate"`
		PlanId   uint64 `db:"plan_id" json:"plan_id"`
		MealId   uint64 `db:"meal_id" json:"meal_id" validate:"required"`
		Servings uint64 `db:"servings" json:"servings" validate:"required,gt=0"`
	}

	Plan struct {
		Id       uint64    `db:"id" json:"id" goqu:"skipinsert,skipupdate"`
		Name     string    `db:"name" json:"name" validate:"required"`
		PlanDate time.Time `db:"plan_date" json:"plan_date"`
		Entries  []*Entry  `db:"-" json:"entries" validate:"required,dive"`
	}

	// One ingredient's share of a plan's stock movement. Required is
	// in base units; a negative value means stock flows back.
	Allocation struct {
		Ingredient *ingredient.Ingredient `json:"-"`
		Name       string                 `json:"ingredient"`
		Required   float64                `json:"required"`
		Available  float64                `json:"available"`
	}

	Service interface {
		GetPlans(ctx context.Context) ([]*Plan, error)
		GetById(ctx context.Context, id uint64) (*Plan, error)
		CreatePlan(ctx context.Context, plan *Plan) (*Plan, error)
		UpdatePlan(ctx context.Context, plan *Plan) (*Plan, error)
		DeletePlan(ctx context.Context, id uint64) error

		CheckStockAvailability(ctx context.Context, entries []*Entry) ([]*Allocation, error)
		DeductStockForMealPlan(ctx context.Context, entries []*Entry) error
		RestoreStockForMealPlan(ctx context.Context, entries []*Entry) error
	}

	service struct {
		repository  Repository
		meals       meal.Service
		ingredients ingredient.Repository
		locker      *ingredient.Locker
		notifier    notification.Notifier
	}
)

func NewService(repository Repository, meals meal.Service, ingredients ingredient.Repository, locker *ingredient.Locker, notifier notification.Notifier) Service {
	return &service{repository, meals, ingredients, locker, notifier}
}

func (s *service) GetPlans(ctx context.Context) ([]*Plan, error) {
	return s.repository.FetchPlans(ctx)
}

func (s *service) GetById(ctx context.Context, id uint64) (*Plan, error) {
	return s.repository.GetById(ctx, id)
}

// Validates every requirement against current stock without touching
// it. Fails with the first constraining ingredient.
func (s *service) CheckStockAvailability(ctx context.Context, entries []*Entry) ([]*Allocation, error) {
	totals, err := s.requiredQuantities(ctx, entries)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, totals)
}

// Two-phase allocation: validation and commit run under the touched
// ingredients' locks so no concurrent plan can invalidate the
// snapshot between phases. The commit itself is a single transaction.
func (s *service) DeductStockForMealPlan(ctx context.Context, entries []*Entry) error {
	totals, err := s.requiredQuantities(ctx, entries)
	if err != nil {
		return err
	}

	release := s.locker.Acquire(ingredientIds(totals)...)
	defer release()

	allocations, err := s.validate(ctx, totals)
	if err != nil {
		return err
	}

	if err := s.repository.AllocateStock(ctx, allocations); err != nil {
		return err
	}

	s.notifyLowStock(ctx, allocations)

	return nil
}

// The exact inverse of a deduction: the same proportional quantities
// flow back into the batch store.
func (s *service) RestoreStockForMealPlan(ctx context.Context, entries []*Entry) error {
	totals, err := s.requiredQuantities(ctx, entries)
	if err != nil {
		return err
	}

	release := s.locker.Acquire(ingredientIds(totals)...)
	defer release()

	restorations, err := s.restorations(ctx, totals)
	if err != nil {
		return err
	}

	return s.repository.RestoreStock(ctx, restorations)
}

func (s *service) CreatePlan(ctx context.Context, plan *Plan) (*Plan, error) {
	totals, err := s.requiredQuantities(ctx, plan.Entries)
	if err != nil {
		return nil, err
	}

	release := s.locker.Acquire(ingredientIds(totals)...)
	defer release()

	allocations, err := s.validate(ctx, totals)
	if err != nil {
		return nil, err
	}

	plan, err = s.repository.SavePlan(ctx, plan, allocations)
	if err != nil {
		return nil, err
	}

	s.notifyLowStock(ctx, allocations)

	return plan, nil
}

// Replaces a plan atomically. The old entries' restoration and the
// new entries' deduction collapse into one signed delta per
// ingredient, validated and committed in a single transaction, so the
// intermediate "restored" state never becomes durable.
func (s *service) UpdatePlan(ctx context.Context, plan *Plan) (*Plan, error) {
	existing, err := s.repository.GetById(ctx, plan.Id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, server.NewBusinessRuleError("meal plan not found")
	}

	oldTotals, err := s.requiredQuantities(ctx, existing.Entries)
	if err != nil {
		return nil, err
	}
	newTotals, err := s.requiredQuantities(ctx, plan.Entries)
	if err != nil {
		return nil, err
	}

	deltas := make(map[uint64]float64)
	for id, quantity := range newTotals {
		deltas[id] = quantity - oldTotals[id]
	}
	for id, quantity := range oldTotals {
		if _, ok := newTotals[id]; !ok {
			deltas[id] = -quantity
		}
	}

	release := s.locker.Acquire(ingredientIds(deltas)...)
	defer release()

	changes := make([]*Allocation, 0)

	for _, id := range ingredientIds(deltas) {
		delta := deltas[id]
		if math.Abs(delta) <= unit.Tolerance {
			continue
		}

		owner, err := s.ingredients.GetById(ctx, id)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, server.NewBusinessRuleError("ingredient not found")
		}

		available := owner.StockBaseUnits()
		if delta > available+unit.Tolerance {
			return nil, server.NewInsufficientStockError(owner.Name, delta, available)
		}

		changes = append(changes, &Allocation{
			Ingredient: owner,
			Name:       owner.Name,
			Required:   delta,
			Available:  available,
		})
	}

	plan, err = s.repository.UpdatePlan(ctx, plan, changes)
	if err != nil {
		return nil, err
	}

	s.notifyLowStock(ctx, changes)

	return plan, nil
}

// Restoration is best-effort: a plan whose meals were edited since
// creation is still deleted, only the stock it can no longer account
// for stays deducted.
func (s *service) DeletePlan(ctx context.Context, id uint64) error {
	plan, err := s.repository.GetById(ctx, id)
	if err != nil {
		return err
	}
	if plan == nil {
		return server.NewBusinessRuleError("meal plan not found")
	}

	restorations := make([]*Allocation, 0)

	totals, err := s.requiredQuantities(ctx, plan.Entries)
	if err != nil {
		logger.Warn("could not restore stock for plan", zap.Uint64("plan", id), zap.Error(err))
	} else {
		release := s.locker.Acquire(ingredientIds(totals)...)
		defer release()

		restorations, err = s.restorations(ctx, totals)
		if err != nil {
			return err
		}
	}

	return s.repository.DeletePlan(ctx, plan, restorations)
}

// The proportional quantity owed per ingredient, summed across
// entries: (entry.servings / meal.servings) * requirement.quantity.
func (s *service) requiredQuantities(ctx context.Context, entries []*Entry) (map[uint64]float64, error) {
	totals := make(map[uint64]float64)

	for _, entry := range entries {
		planned, err := s.meals.GetById(ctx, entry.MealId)
		if err != nil {
			return nil, err
		}
		if planned == nil {
			return nil, server.NewBusinessRuleError("meal not found")
		}

		requirements, err := s.meals.GetRequirements(ctx, entry.MealId)
		if err != nil {
			return nil, err
		}

		for _, requirement := range requirements {
			proportional := float64(entry.Servings) / float64(planned.Servings) * requirement.Quantity
			totals[requirement.IngredientId] += proportional
		}
	}

	return totals, nil
}

func (s *service) validate(ctx context.Context, totals map[uint64]float64) ([]*Allocation, error) {
	allocations := make([]*Allocation, 0, len(totals))

	for _, id := range ingredientIds(totals) {
		owner, err := s.ingredients.GetById(ctx, id)
		if err != nil {
			return nil, err
		}
		if owner == nil || !owner.IsActive {
			return nil, server.NewBusinessRuleError("ingredient not found")
		}

		required := totals[id]
		available := owner.StockBaseUnits()

		if required > available+unit.Tolerance {
			return nil, server.NewInsufficientStockError(owner.Name, required, available)
		}

		allocations = append(allocations, &Allocation{
			Ingredient: owner,
			Name:       owner.Name,
			Required:   required,
			Available:  available,
		})
	}

	return allocations, nil
}

func (s *service) restorations(ctx context.Context, totals map[uint64]float64) ([]*Allocation, error) {
	restorations := make([]*Allocation, 0, len(totals))

	for _, id := range ingredientIds(totals) {
		owner, err := s.ingredients.GetById(ctx, id)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			continue
		}

		restorations = append(restorations, &Allocation{
			Ingredient: owner,
			Name:       owner.Name,
			Required:   totals[id],
		})
	}

	return restorations, nil
}

func (s *service) notifyLowStock(ctx context.Context, allocations []*Allocation) {
	for _, allocation := range allocations {
		if allocation.Ingredient.IsActive && allocation.Ingredient.BelowReorderLevel() {
			s.notifier.Broadcast(ctx, notification.StockLow, fmt.Sprintf(
				"%s is at or below its reorder level",
				allocation.Name,
			))
		}
	}
}

func ingredientIds(totals map[uint64]float64) []uint64 {
	ids := make([]uint64, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
