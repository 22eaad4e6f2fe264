package repository

import (
	"context"

	"recipe-payments/internal/model"

	"gorm.io/gorm"
)

type PlanRepository interface {
	FindByPlanID(ctx context.Context, planID string) (*model.SubscriptionPlan, error)
	List(ctx context.Context) ([]*model.SubscriptionPlan, error)
	Create(ctx context.Context, plan *model.SubscriptionPlan) error
	Update(ctx context.Context, plan *model.SubscriptionPlan) error
	Delete(ctx context.Context, planID string) (bool, error)
}

type planRepoImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepoImpl{
		db: db,
	}
}

func (r *planRepoImpl) FindByPlanID(ctx context.Context, planID string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		First(&plan).Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepoImpl) List(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	var plans []*model.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Order("price ASC").
		Find(&plans).Error

	if err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *planRepoImpl) Create(ctx context.Context, plan *model.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *planRepoImpl) Update(ctx context.Context, plan *model.SubscriptionPlan) error {
	result := r.db.WithContext(ctx).Model(&model.SubscriptionPlan{}).
		Where("plan_id = ?", plan.PlanID).
		Updates(map[string]interface{}{
			"tier":          plan.Tier,
			"name":          plan.Name,
			"price":         plan.Price,
			"currency":      plan.Currency,
			"billing_cycle": plan.BillingCycle,
			"features":      plan.Features,
			"popular_plan":  plan.PopularPlan,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *planRepoImpl) Delete(ctx context.Context, planID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Delete(&model.SubscriptionPlan{})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
