package batch

import (
	"context"
	"math"
	"time"

	"kitchen/database"
	"kitchen/ingredient"
	"kitchen/server"
	"kitchen/unit"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/google/uuid"
)

type (
	Deduction struct {
		BatchId     uint64  `json:"batch_id"`
		BatchNumber string  `json:"batch_number"`
		Deducted    float64 `json:"deducted"`
	}

	DeductionResult struct {
		Deductions    []*Deduction `json:"deducted_from_batches"`
		TotalDeducted float64      `json:"total_deducted"`
	}

	IngredientCleanup struct {
		IngredientId   uint64  `json:"ingredient_id"`
		Name           string  `json:"name"`
		RemovedBatches int     `json:"removed_batches"`
		Stock          float64 `json:"stock"`
	}

	CleanupSummary struct {
		CleanedBatches int                  `json:"cleaned_batches"`
		Ingredients    []*IngredientCleanup `json:"ingredients"`
	}

	Repository interface {
		FetchBatches(ctx context.Context, ingredientId uint64) ([]*Batch, error)
		GetById(ctx context.Context, id uint64) (*Batch, error)
		FetchExpiring(ctx context.Context, before time.Time) ([]*Batch, error)

		// Both run in their own transaction.
		SaveBatch(ctx context.Context, batch *Batch, owner *ingredient.Ingredient) (*Batch, error)
		DeductFromBatches(ctx context.Context, owner *ingredient.Ingredient, quantity float64) (*DeductionResult, error)
		CleanupExpired(ctx context.Context) (*CleanupSummary, error)

		// Compose into a caller's transaction; the allocation engine
		// commits multi-ingredient plans through these.
		DeductStock(tx *database.DB, owner *ingredient.Ingredient, quantity float64) (*DeductionResult, error)
		RestoreStock(tx *database.DB, owner *ingredient.Ingredient, quantity float64) error
	}

	goquRepository struct {
		builder     *goqu.Database
		ingredients ingredient.Repository
	}
)

func NewRepository(conn *database.Connection, ingredients ingredient.Repository) Repository {
	builder := goqu.New(conn.Driver, conn.DB)
	return &goquRepository{builder, ingredients}
}

func (r *goquRepository) FetchBatches(ctx context.Context, ingredientId uint64) ([]*Batch, error) {
	batches := make([]*Batch, 0)

	err := r.builder.
		From(goqu.T("ingredient_batches")).
		Where(goqu.I("ingredient_id").Eq(ingredientId)).
		Order(goqu.I("expiry_date").Asc()).
		ScanStructsContext(ctx, &batches)

	if err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *goquRepository) GetById(ctx context.Context, id uint64) (*Batch, error) {
	batch := new(Batch)

	found, err := r.builder.
		From(goqu.T("ingredient_batches")).
		Where(goqu.I("id").Eq(id)).
		ScanStructContext(ctx, batch)

	if err != nil || !found {
		return nil, err
	}

	return batch, nil
}

func (r *goquRepository) FetchExpiring(ctx context.Context, before time.Time) ([]*Batch, error) {
	batches := make([]*Batch, 0)

	err := r.builder.
		From(goqu.T("ingredient_batches")).
		Where(goqu.And(
			goqu.I("expiry_date").Gt(time.Now()),
			goqu.I("expiry_date").Lte(before),
			goqu.I("base_unit_quantity").Gt(0),
		)).
		Order(goqu.I("expiry_date").Asc()).
		ScanStructsContext(ctx, &batches)

	if err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *goquRepository) SaveBatch(ctx context.Context, batch *Batch, owner *ingredient.Ingredient) (*Batch, error) {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	result, err := dbTx.
		Insert(goqu.T("ingredient_batches")).
		Rows(batch).
		Executor().
		Exec()

	if err != nil {
		return nil, err
	}

	if err := r.recomputeStock(dbTx, owner); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	batch.Id = uint64(id)

	return batch, nil
}

func (r *goquRepository) DeductFromBatches(ctx context.Context, owner *ingredient.Ingredient, quantity float64) (*DeductionResult, error) {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	result, err := r.DeductStock(dbTx, owner, quantity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return result, nil
}

// Walks the ingredient's active batches soonest expiry first,
// depleting each until the quantity is satisfied. The walk and the
// aggregate recompute share the caller's transaction, so a mid-walk
// exhaustion rolls back wholesale instead of leaving partial
// deductions behind.
func (r *goquRepository) DeductStock(tx *database.DB, owner *ingredient.Ingredient, quantity float64) (*DeductionResult, error) {
	batches, err := r.fetchActive(tx, owner.Id)
	if err != nil {
		return nil, err
	}

	result := &DeductionResult{Deductions: make([]*Deduction, 0)}
	remaining := quantity

	for _, batch := range batches {
		if remaining <= unit.Tolerance {
			break
		}

		deducted := math.Min(remaining, batch.BaseUnitQuantity)
		batch.BaseUnitQuantity -= deducted
		batch.PackageQuantity = batch.BaseUnitQuantity / owner.PackagingQuantity

		if err := r.updateQuantities(tx, batch); err != nil {
			return nil, err
		}

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

	if err := r.recomputeStock(tx, owner); err != nil {
		return nil, err
	}

	return result, nil
}

// Returns restored stock to the batch the FIFO walk would have
// consumed last. When no active batch remains a restock batch is
// created carrying the ingredient's current cost.
func (r *goquRepository) RestoreStock(tx *database.DB, owner *ingredient.Ingredient, quantity float64) error {
	batches, err := r.fetchActive(tx, owner.Id)
	if err != nil {
		return err
	}

	if len(batches) > 0 {
		batch := batches[len(batches)-1]
		batch.BaseUnitQuantity += quantity
		batch.PackageQuantity = batch.BaseUnitQuantity / owner.PackagingQuantity

		if err := r.updateQuantities(tx, batch); err != nil {
			return err
		}
	} else {
		restock := &Batch{
			IngredientId:     owner.Id,
			PackageQuantity:  quantity / owner.PackagingQuantity,
			BaseUnitQuantity: quantity,
			ExpiryDate:       time.Now().Add(RestockShelfLife),
			ReceivedDate:     time.Now(),
			BatchNumber:      uuid.NewString(),
			CostPerPackage:   owner.CostPerPackage,
		}

		_, err := tx.
			Insert(goqu.T("ingredient_batches")).
			Rows(restock).
			Executor().
			Exec()

		if err != nil {
			return err
		}
	}

	return r.recomputeStock(tx, owner)
}

func (r *goquRepository) CleanupExpired(ctx context.Context) (*CleanupSummary, error) {
	expired := make([]*Batch, 0)

	err := r.builder.
		From(goqu.T("ingredient_batches")).
		Where(goqu.I("expiry_date").Lt(time.Now())).
		ScanStructsContext(ctx, &expired)

	if err != nil {
		return nil, err
	}

	summary := &CleanupSummary{Ingredients: make([]*IngredientCleanup, 0)}
	if len(expired) == 0 {
		return summary, nil
	}

	ids := make([]uint64, 0, len(expired))
	perIngredient := make(map[uint64]int)

	for _, batch := range expired {
		ids = append(ids, batch.Id)
		perIngredient[batch.IngredientId]++
	}

	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	_, err = dbTx.
		Delete(goqu.T("ingredient_batches")).
		Where(goqu.I("id").In(ids)).
		Executor().
		Exec()

	if err != nil {
		return nil, err
	}

	for ingredientId, removed := range perIngredient {
		owner, err := r.ingredients.GetById(ctx, ingredientId)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			continue
		}

		if err := r.recomputeStock(dbTx, owner); err != nil {
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

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *goquRepository) fetchActive(tx *database.DB, ingredientId uint64) ([]*Batch, error) {
	batches := make([]*Batch, 0)

	err := tx.
		From(goqu.T("ingredient_batches")).
		Where(goqu.And(
			goqu.I("ingredient_id").Eq(ingredientId),
			goqu.I("expiry_date").Gt(time.Now()),
			goqu.I("base_unit_quantity").Gt(0),
		)).
		Order(goqu.I("expiry_date").Asc()).
		ScanStructs(&batches)

	if err != nil {
		return nil, err
	}

	return batches, nil
}

func (r *goquRepository) updateQuantities(tx *database.DB, batch *Batch) error {
	_, err := tx.
		Update(goqu.T("ingredient_batches")).
		Set(goqu.Record{
			"base_unit_quantity": batch.BaseUnitQuantity,
			"package_quantity":   batch.PackageQuantity,
		}).
		Where(goqu.I("id").Eq(batch.Id)).
		Executor().
		Exec()

	return err
}

// The aggregate stock is always recomputed from the surviving
// non-expired batches, never incremented, so it cannot drift from the
// batch ledger.
func (r *goquRepository) recomputeStock(tx *database.DB, owner *ingredient.Ingredient) error {
	var total float64

	_, err := tx.
		From(goqu.T("ingredient_batches")).
		Select(goqu.COALESCE(goqu.SUM("base_unit_quantity"), 0)).
		Where(goqu.And(
			goqu.I("ingredient_id").Eq(owner.Id),
			goqu.I("expiry_date").Gt(time.Now()),
		)).
		ScanVal(&total)

	if err != nil {
		return err
	}

	owner.Stock = total / owner.PackagingQuantity

	return r.ingredients.SetStock(tx, owner.Id, owner.Stock)
}
