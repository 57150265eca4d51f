package plan

import (
	"context"

	"kitchen/batch"
	"kitchen/unit"
)

type fakeRepository struct {
	lastId  uint64
	plans   map[uint64]*Plan
	batches batch.Repository
}

func NewFakeRepository(batches batch.Repository) Repository {
	return &fakeRepository{plans: make(map[uint64]*Plan), batches: batches}
}

func (r *fakeRepository) FetchPlans(ctx context.Context) ([]*Plan, error) {
	plans := make([]*Plan, 0)
	for _, plan := range r.plans {
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *fakeRepository) GetById(ctx context.Context, id uint64) (*Plan, error) {
	return r.plans[id], nil
}

func (r *fakeRepository) SavePlan(ctx context.Context, plan *Plan, allocations []*Allocation) (*Plan, error) {
	if err := r.applyChanges(allocations); err != nil {
		return nil, err
	}

	r.lastId++
	plan.Id = r.lastId
	for _, entry := range plan.Entries {
		entry.PlanId = plan.Id
	}
	r.plans[plan.Id] = plan

	return plan, nil
}

func (r *fakeRepository) UpdatePlan(ctx context.Context, plan *Plan, changes []*Allocation) (*Plan, error) {
	if err := r.applyChanges(changes); err != nil {
		return nil, err
	}

	for _, entry := range plan.Entries {
		entry.PlanId = plan.Id
	}
	r.plans[plan.Id] = plan

	return plan, nil
}

func (r *fakeRepository) DeletePlan(ctx context.Context, plan *Plan, restorations []*Allocation) error {
	for _, restoration := range restorations {
		if err := r.batches.RestoreStock(nil, restoration.Ingredient, restoration.Required); err != nil {
			return err
		}
	}

	delete(r.plans, plan.Id)

	return nil
}

func (r *fakeRepository) AllocateStock(ctx context.Context, allocations []*Allocation) error {
	return r.applyChanges(allocations)
}

func (r *fakeRepository) RestoreStock(ctx context.Context, restorations []*Allocation) error {
	for _, restoration := range restorations {
		if err := r.batches.RestoreStock(nil, restoration.Ingredient, restoration.Required); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRepository) applyChanges(changes []*Allocation) error {
	for _, change := range changes {
		switch {
		case change.Required > unit.Tolerance:
			if _, err := r.batches.DeductStock(nil, change.Ingredient, change.Required); err != nil {
				return err
			}
		case change.Required < -unit.Tolerance:
			if err := r.batches.RestoreStock(nil, change.Ingredient, -change.Required); err != nil {
				return err
			}
		}
	}
	return nil
}
