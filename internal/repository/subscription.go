package repository

import (
	"context"
	"time"

	"recipe-payments/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository interface {
	FindByUserID(ctx context.Context, userID string) (*model.Subscription, error)
	Create(ctx context.Context, sub *model.Subscription) error

	// Upsert writes the full entitlement row keyed on user_id, creating it
	// on first paid upgrade and overwriting on every later one.
	Upsert(ctx context.Context, sub *model.Subscription) error

	// DisableAutoRenew turns off renewal on a paid subscription. Returns the
	// updated row, or (nil, nil) when the user has nothing paid to cancel.
	DisableAutoRenew(ctx context.Context, userID string) (*model.Subscription, error)
}

type subscriptionRepoImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepoImpl{
		db: db,
	}
}

func (r *subscriptionRepoImpl) FindByUserID(ctx context.Context, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sub).Error

	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *subscriptionRepoImpl) Create(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepoImpl) Upsert(ctx context.Context, sub *model.Subscription) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"plan_id":       sub.PlanID,
			"tier":          sub.Tier,
			"start_date":    sub.StartDate,
			"end_date":      sub.EndDate,
			"auto_renew":    sub.AutoRenew,
			"price":         sub.Price,
			"currency":      sub.Currency,
			"last_order_id": sub.LastOrderID,
			"updated_at":    time.Now(),
		}),
	}).Create(sub).Error
}

func (r *subscriptionRepoImpl) DisableAutoRenew(ctx context.Context, userID string) (*model.Subscription, error) {
	result := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND tier <> ?", userID, model.TierFree).
		Updates(map[string]interface{}{
			"auto_renew": false,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindByUserID(ctx, userID)
}
