package repository

import (
	"context"
	"winnerstore/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AffiliateRepository interface {
	Create(ctx context.Context, tx *gorm.DB, affiliate *model.Affiliate) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Affiliate, error)
	FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.Affiliate, error)
	FindByEmail(ctx context.Context, email string) (*model.Affiliate, error)
	List(ctx context.Context) ([]*model.Affiliate, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	IncrementReferralCount(ctx context.Context, tx *gorm.DB, id uint) error
	AddTotals(ctx context.Context, tx *gorm.DB, id uint, sales, commissions decimal.Decimal) error
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type affiliateRepoImpl struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepoImpl{
		db: db,
	}
}

func (r *affiliateRepoImpl) Create(ctx context.Context, tx *gorm.DB, affiliate *model.Affiliate) error {
	return tx.WithContext(ctx).Create(affiliate).Error
}

func (r *affiliateRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.Affiliate, error) {
	var affiliate model.Affiliate
	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&affiliate).Error

	if err != nil {
		return nil, err
	}

	return &affiliate, nil
}

func (r *affiliateRepoImpl) FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.Affiliate, error) {
	var affiliate model.Affiliate
	err := tx.WithContext(ctx).
		Where("affiliate_code = ?", code).
		First(&affiliate).Error

	if err != nil {
		return nil, err
	}

	return &affiliate, nil
}

func (r *affiliateRepoImpl) FindByEmail(ctx context.Context, email string) (*model.Affiliate, error) {
	var affiliate model.Affiliate
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&affiliate).Error

	if err != nil {
		return nil, err
	}

	return &affiliate, nil
}

func (r *affiliateRepoImpl) List(ctx context.Context) ([]*model.Affiliate, error) {
	var affiliates []*model.Affiliate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&affiliates).Error

	if err != nil {
		return nil, err
	}

	return affiliates, nil
}

func (r *affiliateRepoImpl) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Affiliate{}).
		Where("affiliate_code = ?", code).
		Count(&count).Error

	return count > 0, err
}

func (r *affiliateRepoImpl) IncrementReferralCount(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Model(&model.Affiliate{}).
		Where("id = ?", id).
		Update("referral_count", gorm.Expr("referral_count + 1")).Error
}

func (r *affiliateRepoImpl) AddTotals(ctx context.Context, tx *gorm.DB, id uint, sales, commissions decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Affiliate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_sales":       gorm.Expr("total_sales + ?", sales),
			"total_commissions": gorm.Expr("total_commissions + ?", commissions),
		}).Error
}

func (r *affiliateRepoImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Affiliate{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
