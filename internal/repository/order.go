package repository

import (
	"context"
	"errors"
	"time"

	"recipe-payments/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Order, error)

	// MarkCompleted / MarkFailed perform the pending -> terminal transition
	// as a single conditional update. They return (nil, nil) when the order
	// was not pending (already terminal, or nonexistent) and the transition
	// did not happen. That no-op result is what makes duplicate callback
	// delivery safe: only the caller that actually flipped the status may
	// run the entitlement upgrade.
	MarkCompleted(ctx context.Context, orderID string) (*model.Order, error)
	MarkFailed(ctx context.Context, orderID string) (*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) MarkCompleted(ctx context.Context, orderID string) (*model.Order, error) {
	return r.transition(ctx, orderID, model.OrderStatusCompleted)
}

func (r *orderRepoImpl) MarkFailed(ctx context.Context, orderID string) (*model.Order, error) {
	return r.transition(ctx, orderID, model.OrderStatusFailed)
}

// transition updates the order to the target status only if it is still
// pending. The status predicate rides in the UPDATE itself, so two callers
// racing on the same order (IPN vs. browser return) cannot both win.
func (r *orderRepoImpl) transition(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &order, nil
}
