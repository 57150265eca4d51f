package meal

import (
	"context"

	"kitchen/database"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

type (
	Repository interface {
		FetchMeals(ctx context.Context) ([]*Meal, error)
		GetById(ctx context.Context, id uint64) (*Meal, error)
		SaveMeal(ctx context.Context, meal *Meal) (*Meal, error)
		UpdateMeal(ctx context.Context, meal *Meal) (*Meal, error)
		FetchRequirements(ctx context.Context, mealId uint64) ([]*Requirement, error)
		ReplaceRequirements(ctx context.Context, mealId uint64, requirements []*Requirement) error
	}

	goquRepository struct {
		builder *goqu.Database
	}
)

func NewRepository(conn *database.Connection) Repository {
	builder := goqu.New(conn.Driver, conn.DB)
	return &goquRepository{builder}
}

func (r *goquRepository) FetchMeals(ctx context.Context) ([]*Meal, error) {
	meals := make([]*Meal, 0)

	err := r.builder.
		From(goqu.T("meals")).
		Order(goqu.I("name").Asc()).
		ScanStructsContext(ctx, &meals)

	if err != nil {
		return nil, err
	}

	return meals, nil
}

func (r *goquRepository) GetById(ctx context.Context, id uint64) (*Meal, error) {
	meal := new(Meal)

	found, err := r.builder.
		From(goqu.T("meals")).
		Where(goqu.I("id").Eq(id)).
		ScanStructContext(ctx, meal)

	if err != nil || !found {
		return nil, err
	}

	return meal, nil
}

func (r *goquRepository) SaveMeal(ctx context.Context, meal *Meal) (*Meal, error) {
	result, err := r.builder.
		Insert(goqu.T("meals")).
		Rows(meal).
		Executor().
		ExecContext(ctx)

	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	meal.Id = uint64(id)

	return meal, nil
}

func (r *goquRepository) UpdateMeal(ctx context.Context, meal *Meal) (*Meal, error) {
	_, err := r.builder.
		Update(goqu.T("meals")).
		Set(meal).
		Where(goqu.I("id").Eq(meal.Id)).
		Executor().
		ExecContext(ctx)

	if err != nil {
		return nil, err
	}

	return meal, nil
}

func (r *goquRepository) FetchRequirements(ctx context.Context, mealId uint64) ([]*Requirement, error) {
	requirements := make([]*Requirement, 0)

	err := r.builder.
		From(goqu.T("meal_ingredients")).
		Where(goqu.I("meal_id").Eq(mealId)).
		Order(goqu.I("ingredient_id").Asc()).
		ScanStructsContext(ctx, &requirements)

	if err != nil {
		return nil, err
	}

	return requirements, nil
}

func (r *goquRepository) ReplaceRequirements(ctx context.Context, mealId uint64, requirements []*Requirement) error {
	tx, err := r.builder.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	_, err = tx.
		Delete(goqu.T("meal_ingredients")).
		Where(goqu.I("meal_id").Eq(mealId)).
		Executor().
		Exec()

	if err != nil {
		return err
	}

	if len(requirements) > 0 {
		_, err = tx.
			Insert(goqu.T("meal_ingredients")).
			Rows(requirements).
			Executor().
			Exec()

		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
