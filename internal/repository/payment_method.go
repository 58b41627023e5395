package repository

import (
	"context"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

type PaymentMethodRepository interface {
	Create(ctx context.Context, method *model.PaymentMethod) error
	Update(ctx context.Context, method *model.PaymentMethod) error
	ListActive(ctx context.Context) ([]*model.PaymentMethod, error)
	List(ctx context.Context) ([]*model.PaymentMethod, error)
}

type paymentMethodRepoImpl struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepoImpl{
		db: db,
	}
}

func (r *paymentMethodRepoImpl) Create(ctx context.Context, method *model.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *paymentMethodRepoImpl) Update(ctx context.Context, method *model.PaymentMethod) error {
	result := r.db.WithContext(ctx).Model(&model.PaymentMethod{}).
		Where("id = ?", method.ID).
		Updates(map[string]interface{}{
			"name":           method.Name,
			"type":           method.Type,
			"account_number": method.AccountNumber,
			"qr_url":         method.QRURL,
			"active":         method.Active,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *paymentMethodRepoImpl) ListActive(ctx context.Context) ([]*model.PaymentMethod, error) {
	var methods []*model.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&methods).Error

	if err != nil {
		return nil, err
	}

	return methods, nil
}

func (r *paymentMethodRepoImpl) List(ctx context.Context) ([]*model.PaymentMethod, error) {
	var methods []*model.PaymentMethod
	err := r.db.WithContext(ctx).Find(&methods).Error
	if err != nil {
		return nil, err
	}

	return methods, nil
}
