package ingredient

import (
	"context"

	"kitchen/database"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

type (
	Repository interface {
		FetchIngredients(ctx context.Context, activeOnly bool) ([]*Ingredient, error)
		GetById(ctx context.Context, id uint64) (*Ingredient, error)
		GetByName(ctx context.Context, name string) (*Ingredient, error)
		FetchLowStock(ctx context.Context) ([]*Ingredient, error)
		SaveIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error)
		UpdateIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error)

		// Writes the recomputed aggregate stock within a caller's
		// transaction. Only the batch store should call this, stock
		// is a projection of batches, never edited directly.
		SetStock(tx *database.DB, id uint64, stock float64) error
	}

	goquRepository struct {
		builder *goqu.Database
	}
)

func NewRepository(conn *database.Connection) Repository {
	builder := goqu.New(conn.Driver, conn.DB)
	return &goquRepository{builder}
}

func (r *goquRepository) FetchIngredients(ctx context.Context, activeOnly bool) ([]*Ingredient, error) {
	ingredients := make([]*Ingredient, 0)

	query := r.builder.From(goqu.T("ingredients")).Order(goqu.I("name").Asc())
	if activeOnly {
		query = query.Where(goqu.I("is_active").IsTrue())
	}

	if err := query.ScanStructsContext(ctx, &ingredients); err != nil {
		return nil, err
	}

	return ingredients, nil
}

func (r *goquRepository) GetById(ctx context.Context, id uint64) (*Ingredient, error) {
	ingredient := new(Ingredient)

	found, err := r.builder.
		From(goqu.T("ingredients")).
		Where(goqu.I("id").Eq(id)).
		ScanStructContext(ctx, ingredient)

	if err != nil || !found {
		return nil, err
	}

	return ingredient, nil
}

func (r *goquRepository) GetByName(ctx context.Context, name string) (*Ingredient, error) {
	ingredient := new(Ingredient)

	found, err := r.builder.
		From(goqu.T("ingredients")).
		Where(goqu.I("name").Eq(name)).
		ScanStructContext(ctx, ingredient)

	if err != nil || !found {
		return nil, err
	}

	return ingredient, nil
}

func (r *goquRepository) FetchLowStock(ctx context.Context) ([]*Ingredient, error) {
	ingredients := make([]*Ingredient, 0)

	err := r.builder.
		From(goqu.T("ingredients")).
		Where(goqu.And(
			goqu.I("is_active").IsTrue(),
			goqu.I("stock").Lte(goqu.I("reorder_level")),
		)).
		Order(goqu.I("name").Asc()).
		ScanStructsContext(ctx, &ingredients)

	if err != nil {
		return nil, err
	}

	return ingredients, nil
}

func (r *goquRepository) SaveIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error) {
	result, err := r.builder.
		Insert(goqu.T("ingredients")).
		Rows(ingredient).
		Executor().
		ExecContext(ctx)

	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	ingredient.Id = uint64(id)

	return ingredient, nil
}

func (r *goquRepository) UpdateIngredient(ctx context.Context, ingredient *Ingredient) (*Ingredient, error) {
	_, err := r.builder.
		Update(goqu.T("ingredients")).
		Set(ingredient).
		Where(goqu.I("id").Eq(ingredient.Id)).
		Executor().
		ExecContext(ctx)

	if err != nil {
		return nil, err
	}

	return ingredient, nil
}

func (r *goquRepository) SetStock(tx *database.DB, id uint64, stock float64) error {
	_, err := tx.
		Update(goqu.T("ingredients")).
		Set(goqu.Record{"stock": stock}).
		Where(goqu.I("id").Eq(id)).
		Executor().
		Exec()

	return err
}
