package repository

import (
	"context"
	"time"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

type CommissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, commission *model.Commission) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Commission, error)
	ListByAffiliate(ctx context.Context, affiliateID uint) ([]*model.Commission, error)
	ListUncreditedByOrder(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.Commission, error)
	// MarkCredited flips a commission to paid/credited. Guarded on
	// wp_credited so a commission converts to points at most once.
	MarkCredited(ctx context.Context, tx *gorm.DB, id uint) error
}

type commissionRepoImpl struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepoImpl{
		db: db,
	}
}

func (r *commissionRepoImpl) Create(ctx context.Context, tx *gorm.DB, commission *model.Commission) error {
	return tx.WithContext(ctx).Create(commission).Error
}

func (r *commissionRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Commission, error) {
	var commission model.Commission
	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&commission).Error

	if err != nil {
		return nil, err
	}

	return &commission, nil
}

func (r *commissionRepoImpl) ListByAffiliate(ctx context.Context, affiliateID uint) ([]*model.Commission, error) {
	var commissions []*model.Commission
	err := r.db.WithContext(ctx).
		Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC").
		Find(&commissions).Error

	if err != nil {
		return nil, err
	}

	return commissions, nil
}

func (r *commissionRepoImpl) ListUncreditedByOrder(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.Commission, error) {
	var commissions []*model.Commission
	err := tx.WithContext(ctx).
		Where("order_id = ? AND wp_credited = ?", orderID, false).
		Order("level ASC").
		Find(&commissions).Error

	if err != nil {
		return nil, err
	}

	return commissions, nil
}

func (r *commissionRepoImpl) MarkCredited(ctx context.Context, tx *gorm.DB, id uint) error {
	result := tx.WithContext(ctx).Model(&model.Commission{}).
		Where("id = ? AND wp_credited = ?", id, false).
		Updates(map[string]interface{}{
			"status":      model.CommissionStatusPaid,
			"wp_credited": true,
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
