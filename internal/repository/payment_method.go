package repository

import (
	"context"
	"errors"
	"time"

	"recipe-payments/internal/model"

	"gorm.io/gorm"
)

type PaymentMethodRepository interface {
	FindByID(ctx context.Context, userID, methodID string) (*model.PaymentMethod, error)
	ListByUser(ctx context.Context, userID string) ([]*model.PaymentMethod, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Create(ctx context.Context, method *model.PaymentMethod) error
	Delete(ctx context.Context, userID, methodID string) error

	// PromoteOldest makes the user's oldest remaining method the default,
	// used after the default one was removed.
	PromoteOldest(ctx context.Context, userID string) error
}

type paymentMethodRepoImpl struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepoImpl{
		db: db,
	}
}

func (r *paymentMethodRepoImpl) FindByID(ctx context.Context, userID, methodID string) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", methodID, userID).
		First(&method).Error

	if err != nil {
		return nil, err
	}

	return &method, nil
}

func (r *paymentMethodRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.PaymentMethod, error) {
	var methods []*model.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&methods).Error

	if err != nil {
		return nil, err
	}

	return methods, nil
}

func (r *paymentMethodRepoImpl) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaymentMethod{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}

func (r *paymentMethodRepoImpl) Create(ctx context.Context, method *model.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *paymentMethodRepoImpl) Delete(ctx context.Context, userID, methodID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", methodID, userID).
		Delete(&model.PaymentMethod{}).Error
}

func (r *paymentMethodRepoImpl) PromoteOldest(ctx context.Context, userID string) error {
	var oldest model.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&oldest).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&model.PaymentMethod{}).
		Where("id = ?", oldest.ID).
		Updates(map[string]interface{}{
			"is_default": true,
			"updated_at": time.Now(),
		}).Error
}
