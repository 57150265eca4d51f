package batch

import (
	"context"
	"math"
	"sort"
	"time"

	"kitchen/database"
	"kitchen/ingredient"
	"kitchen/server"
	"kitchen/unit"

	"github.com/google/uuid"
)

type fakeRepository struct {
	lastId      uint64
	data        map[uint64]*Batch
	ingredients ingredient.Repository
}

func NewFakeRepository(ingredients ingredient.Repository) Repository {
	data := map[uint64]*Batch{
		// Flour: 2000g expiring in 2 days, 3000g in 4 days, plus an
		// expired lot that must never be consumed. 5000g = 5 sacks.
		1: {Id: 1, IngredientId: 1, PackageQuantity: 2, BaseUnitQuantity: 2000, ExpiryDate: time.Now().Add(48 * time.Hour), ReceivedDate: time.Now().Add(-24 * time.Hour), BatchNumber: "FL-001", CostPerPackage: 500},
		2: {Id: 2, IngredientId: 1, PackageQuantity: 3, BaseUnitQuantity: 3000, ExpiryDate: time.Now().Add(96 * time.Hour), ReceivedDate: time.Now().Add(-48 * time.Hour), BatchNumber: "FL-002", CostPerPackage: 480},
		3: {Id: 3, IngredientId: 1, PackageQuantity: 4, BaseUnitQuantity: 4000, ExpiryDate: time.Now().Add(-24 * time.Hour), ReceivedDate: time.Now().Add(-96 * time.Hour), BatchNumber: "FL-000", CostPerPackage: 510},

		4: {Id: 4, IngredientId: 2, PackageQuantity: 10, BaseUnitQuantity: 10000, ExpiryDate: time.Now().Add(72 * time.Hour), ReceivedDate: time.Now(), BatchNumber: "MK-001", CostPerPackage: 120},
		5: {Id: 5, IngredientId: 3, PackageQuantity: 1, BaseUnitQuantity: 10, ExpiryDate: time.Now().Add(720 * time.Hour), ReceivedDate: time.Now(), BatchNumber: "SF-001", CostPerPackage: 900},
	}
	return &fakeRepository{lastId: 5, data: data, ingredients: ingredients}
}

func (r *fakeRepository) FetchBatches(ctx context.Context, ingredientId uint64) ([]*Batch, error) {
	batches := make([]*Batch, 0)
	for _, batch := range r.data {
		if batch.IngredientId == ingredientId {
			batches = append(batches, batch)
		}
	}
	sortByExpiry(batches)
	return batches, nil
}

func (r *fakeRepository) GetById(ctx context.Context, id uint64) (*Batch, error) {
	return r.data[id], nil
}

func (r *fakeRepository) FetchExpiring(ctx context.Context, before time.Time) ([]*Batch, error) {
	batches := make([]*Batch, 0)
	for _, batch := range r.data {
		if !batch.Expired() && batch.ExpiryDate.Before(before) && !batch.Depleted() {
			batches = append(batches, batch)
		}
	}
	sortByExpiry(batches)
	return batches, nil
}

func (r *fakeRepository) SaveBatch(ctx context.Context, batch *Batch, owner *ingredient.Ingredient) (*Batch, error) {
	r.lastId++
	batch.Id = r.lastId
	r.data[batch.Id] = batch

	return batch, r.recomputeStock(owner)
}

func (r *fakeRepository) DeductFromBatches(ctx context.Context, owner *ingredient.Ingredient, quantity float64) (*DeductionResult, error) {
	return r.DeductStock(nil, owner, quantity)
}

func (r *fakeRepository) DeductStock(tx *database.DB, owner *ingredient.Ingredient, quantity float64) (*DeductionResult, error) {
	batches := r.active(owner.Id)

	// Stage the walk so an exhausted run leaves nothing applied.
	staged := make(map[uint64]float64)
	result := &DeductionResult{Deductions: make([]*Deduction, 0)}
	remaining := quantity

	for _, batch := range batches {
		if remaining <= unit.Tolerance {
			break
		}

		deducted := math.Min(remaining, batch.BaseUnitQuantity)
		staged[batch.Id] = deducted
		remaining -= deducted
		result.TotalDeducted += deducted
		result.Deductions = append(result.Deductions, &Deduction{
			BatchId:     batch.Id,
			BatchNumber: batch.BatchNumber,
			Deducted:    deducted,
		})
	}

	if remaining > unit.Tolerance {
		return nil, server.NewInsufficientStockError(owner.Name, quantity, result.TotalDeducted)
	}

	for id, deducted := range staged {
		batch := r.data[id]
		batch.BaseUnitQuantity -= deducted
		batch.PackageQuantity = batch.BaseUnitQuantity / owner.PackagingQuantity
	}

	return result, r.recomputeStock(owner)
}

func (r *fakeRepository) RestoreStock(tx *database.DB, owner *ingredient.Ingredient, quantity float64) error {
	batches := r.active(owner.Id)

	if len(batches) > 0 {
		batch := batches[len(batches)-1]
		batch.BaseUnitQuantity += quantity
		batch.PackageQuantity = batch.BaseUnitQuantity / owner.PackagingQuantity
	} else {
		r.lastId++
		r.data[r.lastId] = &Batch{
			Id:               r.lastId,
			IngredientId:     owner.Id,
			PackageQuantity:  quantity / owner.PackagingQuantity,
			BaseUnitQuantity: quantity,
			ExpiryDate:       time.Now().Add(RestockShelfLife),
			ReceivedDate:     time.Now(),
			BatchNumber:      uuid.NewString(),
			CostPerPackage:   owner.CostPerPackage,
		}
	}

	return r.recomputeStock(owner)
}

func (r *fakeRepository) CleanupExpired(ctx context.Context) (*CleanupSummary, error) {
	summary := &CleanupSummary{Ingredients: make([]*IngredientCleanup, 0)}
	perIngredient := make(map[uint64]int)

	for id, batch := range r.data {
		if batch.Expired() {
			perIngredient[batch.IngredientId]++
			delete(r.data, id)
		}
	}

	for ingredientId, removed := range perIngredient {
		owner, err := r.ingredients.GetById(ctx, ingredientId)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			continue
		}

		if err := r.recomputeStock(owner); err != nil {
			return nil, err
		}

		summary.CleanedBatches += removed
		summary.Ingredients = append(summary.Ingredients, &IngredientCleanup{
			IngredientId:   owner.Id,
			Name:           owner.Name,
			RemovedBatches: removed,
			Stock:          owner.Stock,
		})
	}

	return summary, nil
}

func (r *fakeRepository) active(ingredientId uint64) []*Batch {
	batches := make([]*Batch, 0)
	for _, batch := range r.data {
		if batch.IngredientId == ingredientId && !batch.Expired() && !batch.Depleted() {
			batches = append(batches, batch)
		}
	}
	sortByExpiry(batches)
	return batches
}

func (r *fakeRepository) recomputeStock(owner *ingredient.Ingredient) error {
	var total float64
	for _, batch := range r.data {
		if batch.IngredientId == owner.Id && !batch.Expired() {
			total += batch.BaseUnitQuantity
		}
	}

	owner.Stock = total / owner.PackagingQuantity

	return r.ingredients.SetStock(nil, owner.Id, owner.Stock)
}

func sortByExpiry(batches []*Batch) {
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
	})
}
