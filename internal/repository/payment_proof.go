package repository

import (
	"context"
	"time"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

type PaymentProofRepository interface {
	Create(ctx context.Context, tx *gorm.DB, proof *model.PaymentProof) error
	HasPendingForOrder(ctx context.Context, orderID uint) (bool, error)
	List(ctx context.Context) ([]*model.PaymentProof, error)
	// MarkReviewed resolves the pending proof of an order. Already
	// resolved proofs match nothing.
	MarkReviewed(ctx context.Context, tx *gorm.DB, orderID uint, status, adminNotes string) error
}

type paymentProofRepoImpl struct {
	db *gorm.DB
}

func NewPaymentProofRepository(db *gorm.DB) PaymentProofRepository {
	return &paymentProofRepoImpl{
		db: db,
	}
}

func (r *paymentProofRepoImpl) Create(ctx context.Context, tx *gorm.DB, proof *model.PaymentProof) error {
	return tx.WithContext(ctx).Create(proof).Error
}

func (r *paymentProofRepoImpl) HasPendingForOrder(ctx context.Context, orderID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaymentProof{}).
		Where("order_id = ? AND status = ?", orderID, model.RequestStatusPending).
		Count(&count).Error

	return count > 0, err
}

func (r *paymentProofRepoImpl) List(ctx context.Context) ([]*model.PaymentProof, error) {
	var proofs []*model.PaymentProof
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&proofs).Error

	if err != nil {
		return nil, err
	}

	return proofs, nil
}

func (r *paymentProofRepoImpl) MarkReviewed(ctx context.Context, tx *gorm.DB, orderID uint, status, adminNotes string) error {
	result := tx.WithContext(ctx).Model(&model.PaymentProof{}).
		Where("order_id = ? AND status = ?", orderID, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": adminNotes,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
