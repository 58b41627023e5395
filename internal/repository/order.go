package repository

import (
	"context"
	"time"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)
	ListPendingVerification(ctx context.Context) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
	// MarkVerified resolves a pending_verification order to paid and
	// completed. Only rows still pending transition; a second call
	// matches nothing.
	MarkVerified(ctx context.Context, tx *gorm.DB, orderID uint) error
	// MarkCancelled resolves a pending_verification order to
	// Cancelado, same single-transition guard.
	MarkCancelled(ctx context.Context, tx *gorm.DB, orderID uint) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderItem, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByEmail(ctx context.Context, email string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) List(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListPendingVerification(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("payment_status = ?", model.PaymentStatusPendingVerification).
		Order("created_at ASC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) MarkVerified(ctx context.Context, tx *gorm.DB, orderID uint) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentStatusPendingVerification).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusCompleted,
			"status":         model.OrderStatusProcessing,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) MarkCancelled(ctx context.Context, tx *gorm.DB, orderID uint) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, model.PaymentStatusPendingVerification).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusRejected,
			"status":         model.OrderStatusCancelled,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := tx.WithContext(ctx).Where("order_id = ?", orderID).
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}
