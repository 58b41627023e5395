package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when a conditional balance debit
// matches no row.
var ErrInsufficientBalance = fmt.Errorf("insufficient balance")

type CreditRepository interface {
	FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.UserCredit, error)
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.UserCredit, error)
	// GetOrCreate returns the credit account for an email, creating a
	// zero-balance one when missing.
	GetOrCreate(ctx context.Context, tx *gorm.DB, email string) (*model.UserCredit, error)
	AddBalance(ctx context.Context, tx *gorm.DB, creditID uint, amount int64) error
	// DeductBalance checks and debits in a single conditional UPDATE,
	// the balance can never go negative.
	DeductBalance(ctx context.Context, tx *gorm.DB, creditID uint, amount int64) error
	CreateTransaction(ctx context.Context, tx *gorm.DB, entry *model.CreditTransaction) error
	ListTransactions(ctx context.Context, creditID uint) ([]*model.CreditTransaction, error)
	List(ctx context.Context) ([]*model.UserCredit, error)
}

type creditRepoImpl struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepoImpl{
		db: db,
	}
}

func (r *creditRepoImpl) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.UserCredit, error) {
	var credit model.UserCredit
	err := tx.WithContext(ctx).
		Where("email = ?", email).
		First(&credit).Error

	if err != nil {
		return nil, err
	}

	return &credit, nil
}

func (r *creditRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.UserCredit, error) {
	var credit model.UserCredit
	err := tx.WithContext(ctx).
		Where("id = ?", id).
		First(&credit).Error

	if err != nil {
		return nil, err
	}

	return &credit, nil
}

func (r *creditRepoImpl) GetOrCreate(ctx context.Context, tx *gorm.DB, email string) (*model.UserCredit, error) {
	credit, err := r.FindByEmail(ctx, tx, email)
	if err == nil {
		return credit, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	credit = &model.UserCredit{Email: email}
	if err := tx.WithContext(ctx).Create(credit).Error; err != nil {
		return nil, err
	}

	return credit, nil
}

func (r *creditRepoImpl) AddBalance(ctx context.Context, tx *gorm.DB, creditID uint, amount int64) error {
	result := tx.WithContext(ctx).Model(&model.UserCredit{}).
		Where("id = ?", creditID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
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

func (r *creditRepoImpl) DeductBalance(ctx context.Context, tx *gorm.DB, creditID uint, amount int64) error {
	result := tx.WithContext(ctx).Model(&model.UserCredit{}).
		Where("id = ? AND balance >= ?", creditID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}

	return nil
}

func (r *creditRepoImpl) CreateTransaction(ctx context.Context, tx *gorm.DB, entry *model.CreditTransaction) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *creditRepoImpl) ListTransactions(ctx context.Context, creditID uint) ([]*model.CreditTransaction, error) {
	var entries []*model.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("user_credit_id = ?", creditID).
		Order("created_at DESC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *creditRepoImpl) List(ctx context.Context) ([]*model.UserCredit, error) {
	var credits []*model.UserCredit
	err := r.db.WithContext(ctx).Order("email ASC").Find(&credits).Error
	if err != nil {
		return nil, err
	}

	return credits, nil
}
