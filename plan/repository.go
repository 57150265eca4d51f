package plan

import (
	"context"

	"kitchen/batch"
	"kitchen/database"
	"kitchen/unit"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

type (
	Repository interface {
		FetchPlans(ctx context.Context) ([]*Plan, error)
		GetById(ctx context.Context, id uint64) (*Plan, error)
		SavePlan(ctx context.Context, plan *Plan, allocations []*Allocation) (*Plan, error)
		UpdatePlan(ctx context.Context, plan *Plan, changes []*Allocation) (*Plan, error)
		DeletePlan(ctx context.Context, plan *Plan, restorations []*Allocation) error

		// Stock movement without a persisted plan, for callers that
		// manage their own plan records.
		AllocateStock(ctx context.Context, allocations []*Allocation) error
		RestoreStock(ctx context.Context, restorations []*Allocation) error
	}

	goquRepository struct {
		builder *goqu.Database
		batches batch.Repository
	}
)

func NewRepository(conn *database.Connection, batches batch.Repository) Repository {
	builder := goqu.New(conn.Driver, conn.DB)
	return &goquRepository{builder, batches}
}

func (r *goquRepository) FetchPlans(ctx context.Context) ([]*Plan, error) {
	plans := make([]*Plan, 0)

	err := r.builder.
		From(goqu.T("meal_plans")).
		Order(goqu.I("plan_date").Desc()).
		ScanStructsContext(ctx, &plans)

	if err != nil {
		return nil, err
	}

	for _, plan := range plans {
		if plan.Entries, err = r.fetchEntries(ctx, plan.Id); err != nil {
			return nil, err
		}
	}

	return plans, nil
}

func (r *goquRepository) GetById(ctx context.Context, id uint64) (*Plan, error) {
	plan := new(Plan)

	found, err := r.builder.
		From(goqu.T("meal_plans")).
		Where(goqu.I("id").Eq(id)).
		ScanStructContext(ctx, plan)

	if err != nil || !found {
		return nil, err
	}

	if plan.Entries, err = r.fetchEntries(ctx, plan.Id); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *goquRepository) SavePlan(ctx context.Context, plan *Plan, allocations []*Allocation) (*Plan, error) {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	if err := r.applyChanges(dbTx, allocations); err != nil {
		return nil, err
	}

	result, err := dbTx.
		Insert(goqu.T("meal_plans")).
		Rows(goqu.Record{
			"name":      plan.Name,
			"plan_date": plan.PlanDate,
		}).
		Executor().
		Exec()

	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	plan.Id = uint64(id)

	if err := r.insertEntries(dbTx, plan); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *goquRepository) UpdatePlan(ctx context.Context, plan *Plan, changes []*Allocation) (*Plan, error) {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	if err := r.applyChanges(dbTx, changes); err != nil {
		return nil, err
	}

	_, err = dbTx.
		Update(goqu.T("meal_plans")).
		Set(goqu.Record{
			"name":      plan.Name,
			"plan_date": plan.PlanDate,
		}).
		Where(goqu.I("id").Eq(plan.Id)).
		Executor().
		Exec()

	if err != nil {
		return nil, err
	}

	_, err = dbTx.
		Delete(goqu.T("meal_plan_entries")).
		Where(goqu.I("plan_id").Eq(plan.Id)).
		Executor().
		Exec()

	if err != nil {
		return nil, err
	}

	if err := r.insertEntries(dbTx, plan); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *goquRepository) DeletePlan(ctx context.Context, plan *Plan, restorations []*Allocation) error {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	for _, restoration := range restorations {
		if err := r.batches.RestoreStock(dbTx, restoration.Ingredient, restoration.Required); err != nil {
			return err
		}
	}

	_, err = dbTx.
		Delete(goqu.T("meal_plan_entries")).
		Where(goqu.I("plan_id").Eq(plan.Id)).
		Executor().
		Exec()

	if err != nil {
		return err
	}

	_, err = dbTx.
		Delete(goqu.T("meal_plans")).
		Where(goqu.I("id").Eq(plan.Id)).
		Executor().
		Exec()

	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *goquRepository) AllocateStock(ctx context.Context, allocations []*Allocation) error {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	if err := r.applyChanges(dbTx, allocations); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *goquRepository) RestoreStock(ctx context.Context, restorations []*Allocation) error {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	dbTx := &database.DB{TxDatabase: tx}

	for _, restoration := range restorations {
		if err := r.batches.RestoreStock(dbTx, restoration.Ingredient, restoration.Required); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Positive quantities leave through the FIFO walk, negative ones flow
// back into the batch store.
func (r *goquRepository) applyChanges(tx *database.DB, changes []*Allocation) error {
	for _, change := range changes {
		switch {
		case change.Required > unit.Tolerance:
			if _, err := r.batches.DeductStock(tx, change.Ingredient, change.Required); err != nil {
				return err
			}
		case change.Required < -unit.Tolerance:
			if err := r.batches.RestoreStock(tx, change.Ingredient, -change.Required); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *goquRepository) fetchEntries(ctx context.Context, planId uint64) ([]*Entry, error) {
	entries := make([]*Entry, 0)

	err := r.builder.
		From(goqu.T("meal_plan_entries")).
		Where(goqu.I("plan_id").Eq(planId)).
		ScanStructsContext(ctx, &entries)

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *goquRepository) insertEntries(tx *database.DB, plan *Plan) error {
	for _, entry := range plan.Entries {
		entry.PlanId = plan.Id

		result, err := tx.
			Insert(goqu.T("meal_plan_entries")).
			Rows(goqu.Record{
				"plan_id":  entry.PlanId,
				"meal_id":  entry.MealId,
				"servings": entry.Servings,
			}).
			Executor().
			Exec()

		if err != nil {
			return err
		}

		id, err := result.LastInsertId()
		if err != nil {
			return err
		}

		entry.Id = uint64(id)
	}

	return nil
}
