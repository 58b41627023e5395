package repository

import (
	"context"
	"time"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

type WithdrawalRepository interface {
	Create(ctx context.Context, tx *gorm.DB, request *model.WithdrawalRequest) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.WithdrawalRequest, error)
	ListByCredit(ctx context.Context, creditID uint) ([]*model.WithdrawalRequest, error)
	List(ctx context.Context) ([]*model.WithdrawalRequest, error)
	// MarkProcessed moves a request out of pending. Terminal rows
	// match nothing, so a resolved request can not flip again.
	MarkProcessed(ctx context.Context, tx *gorm.DB, id uint, status, adminNotes string) error
}

type withdrawalRepoImpl struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepoImpl{
		db: db,
	}
}

func (r *withdrawalRepoImpl) Create(ctx context.Context, tx *gorm.DB, request *model.WithdrawalRequest) error {
	return tx.WithContext(ctx).Create(request).Error
}

func (r *withdrawalRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.WithdrawalRequest, error) {
	var request model.WithdrawalRequest
	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error

	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *withdrawalRepoImpl) ListByCredit(ctx context.Context, creditID uint) ([]*model.WithdrawalRequest, error) {
	var requests []*model.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Where("user_credit_id = ?", creditID).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *withdrawalRepoImpl) List(ctx context.Context) ([]*model.WithdrawalRequest, error) {
	var requests []*model.WithdrawalRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&requests).Error

	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *withdrawalRepoImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, id uint, status, adminNotes string) error {
	result := tx.WithContext(ctx).Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
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
