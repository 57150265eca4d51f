package batch

import (
	"context"
	"fmt"
	"math"
	"time"

	"kitchen/ingredient"
	"kitchen/notification"
	"kitchen/server"
	"kitchen/unit"

	"github.com/google/uuid"
)

// Shelf life assigned to restock batches created when stock is
// restored and no active batch is left to receive it.
const RestockShelfLife = 7 * 24 * time.Hour

type (
	// A dated lot of a single ingredient received together. The base
	// unit quantity is stored independently of the package count
	// because partial deductions mutate it.
	Batch struct {
		Id               uint64    `db:"id" json:"id" goqu:"skipinsert,skipupdate"`
		IngredientId     uint64    `db:"ingredient_id" json:"ingredient_id"`
		PackageQuantity  float64   `db:"package_quantity" json:"package_quantity" validate:"required,gt=0"`
		BaseUnitQuantity float64   `db:"base_unit_quantity" json:"base_unit_quantity" validate:"gte=0"`
		ExpiryDate       time.Time `db:"expiry_date" json:"expiry_date" validate:"required"`
		ReceivedDate     time.Time `db:"received_date" json:"received_date"`
		BatchNumber      string    `db:"batch_number" json:"batch_number"`
		CostPerPackage   float64   `db:"cost_per_package" json:"cost_per_package" validate:"gte=0"`
		Supplier         string    `db:"supplier" json:"supplier"`
		PurchaseOrder    string    `db:"purchase_order" json:"purchase_order"`
	}

	Service interface {
		GetBatches(ctx context.Context, ingredientId uint64) ([]*Batch, error)
		AddBatch(ctx context.Context, batch *Batch) (*Batch, error)
		DeductFromBatches(ctx context.Context, ingredientId uint64, quantity float64) (*DeductionResult, error)
		GetExpiring(ctx context.Context, days int) ([]*Batch, error)
		CleanupExpiredBatches(ctx context.Context) (*CleanupSummary, error)
	}

	service struct {
		repository  Repository
		ingredients ingredient.Repository
		locker      *ingredient.Locker
		notifier    notification.Notifier
	}
)

func (b *Batch) Expired() bool {
	return b.ExpiredAt(time.Now())
}

func (b *Batch) ExpiredAt(t time.Time) bool {
	return b.ExpiryDate.Before(t)
}

// A depleted batch still exists until it expires, but it never
// contributes to availability or consumption.
func (b *Batch) Depleted() bool {
	return b.BaseUnitQuantity <= unit.Tolerance
}

func NewService(repository Repository, ingredients ingredient.Repository, locker *ingredient.Locker, notifier notification.Notifier) Service {
	return &service{repository, ingredients, locker, notifier}
}

func (s *service) GetBatches(ctx context.Context, ingredientId uint64) ([]*Batch, error) {
	return s.repository.FetchBatches(ctx, ingredientId)
}

func (s *service) AddBatch(ctx context.Context, batch *Batch) (*Batch, error) {
	owner, err := s.ingredients.GetById(ctx, batch.IngredientId)
	if err != nil {
		return nil, err
	}
	if owner == nil || !owner.IsActive {
		return nil, server.NewBusinessRuleError("ingredient not found")
	}

	if batch.PackageQuantity <= 0 {
		return nil, server.NewBusinessRuleError("package quantity must be greater than zero")
	}
	if batch.ExpiryDate.IsZero() {
		return nil, server.NewBusinessRuleError("expiry date is required")
	}
	if batch.CostPerPackage < 0 {
		return nil, server.NewBusinessRuleError("cost per package cannot be negative")
	}

	baseQuantity := unit.PackagesToBase(batch.PackageQuantity, owner.PackagingQuantity)
	if batch.BaseUnitQuantity != 0 && !approx(batch.BaseUnitQuantity, baseQuantity) {
		return nil, server.NewBusinessRuleError("base unit quantity does not match packaging quantity")
	}
	batch.BaseUnitQuantity = baseQuantity

	if batch.ReceivedDate.IsZero() {
		batch.ReceivedDate = time.Now()
	}
	if batch.BatchNumber == "" {
		batch.BatchNumber = uuid.NewString()
	}

	release := s.locker.Acquire(owner.Id)
	defer release()

	batch, err = s.repository.SaveBatch(ctx, batch, owner)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(ctx, notification.StockReceived, fmt.Sprintf(
		"received %g %s of %s",
		batch.PackageQuantity,
		owner.PackagingUnit,
		owner.Name,
	))

	return batch, nil
}

func (s *service) DeductFromBatches(ctx context.Context, ingredientId uint64, quantity float64) (*DeductionResult, error) {
	if quantity <= 0 {
		return nil, server.NewBusinessRuleError("quantity must be greater than zero")
	}

	release := s.locker.Acquire(ingredientId)
	defer release()

	owner, err := s.ingredients.GetById(ctx, ingredientId)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, server.NewBusinessRuleError("ingredient not found")
	}

	return s.repository.DeductFromBatches(ctx, owner, quantity)
}

func (s *service) GetExpiring(ctx context.Context, days int) ([]*Batch, error) {
	return s.repository.FetchExpiring(ctx, time.Now().AddDate(0, 0, days))
}

func (s *service) CleanupExpiredBatches(ctx context.Context) (*CleanupSummary, error) {
	summary, err := s.repository.CleanupExpired(ctx)
	if err != nil {
		return nil, err
	}

	if summary.CleanedBatches > 0 {
		s.notifier.Broadcast(ctx, notification.BatchesExpired, fmt.Sprintf(
			"removed %d expired batches across %d ingredients",
			summary.CleanedBatches,
			len(summary.Ingredients),
		))
	}

	return summary, nil
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= unit.Tolerance*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
