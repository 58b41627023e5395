package repository

import (
	"context"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

type ReferralRepository interface {
	Create(ctx context.Context, tx *gorm.DB, referral *model.Referral) error
	// GetUpline returns every recorded ancestor edge of an affiliate,
	// nearest first.
	GetUpline(ctx context.Context, tx *gorm.DB, referredID uint) ([]*model.Referral, error)
	// GetDownline returns the affiliates below a referrer, grouped by
	// recorded level.
	GetDownline(ctx context.Context, referrerID uint) ([]*model.Referral, error)
}

type referralRepoImpl struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepoImpl{
		db: db,
	}
}

func (r *referralRepoImpl) Create(ctx context.Context, tx *gorm.DB, referral *model.Referral) error {
	return tx.WithContext(ctx).Create(referral).Error
}

func (r *referralRepoImpl) GetUpline(ctx context.Context, tx *gorm.DB, referredID uint) ([]*model.Referral, error) {
	var edges []*model.Referral
	err := tx.WithContext(ctx).
		Where("referred_id = ?", referredID).
		Order("level ASC").
		Find(&edges).Error

	if err != nil {
		return nil, err
	}

	return edges, nil
}

func (r *referralRepoImpl) GetDownline(ctx context.Context, referrerID uint) ([]*model.Referral, error) {
	var edges []*model.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("level ASC").
		Find(&edges).Error

	if err != nil {
		return nil, err
	}

	return edges, nil
}
