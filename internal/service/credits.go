package service

import (
	"context"
	"errors"
	"fmt"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func decimalFromWP(wp int64, pointValue decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(wp).Mul(pointValue).Round(2)
}

type CreditsService interface {
	// AddUserCredits is the admin-initiated top-up. The credit account
	// is created on first use.
	AddUserCredits(ctx context.Context, email string, amount int64, description string) (*dto.AddCreditsResponse, error)
	// UseCreditsForPurchase debits atomically inside the caller's
	// transaction; insufficient balance leaves it untouched.
	UseCreditsForPurchase(ctx context.Context, tx *gorm.DB, email string, amount int64, orderID uint) error
	Balance(ctx context.Context, email string) (*dto.BalanceResponse, error)
	History(ctx context.Context, email string) ([]*model.CreditTransaction, error)
	ListAccounts(ctx context.Context) ([]*model.UserCredit, error)
}

type creditsServiceImpl struct {
	db              *gorm.DB
	creditRepo      repository.CreditRepository
	settingsService SettingsService
}

func NewCreditsService(
	db *gorm.DB,
	creditRepo repository.CreditRepository,
	settingsService SettingsService,
) CreditsService {
	return &creditsServiceImpl{
		db:              db,
		creditRepo:      creditRepo,
		settingsService: settingsService,
	}
}

func (s *creditsServiceImpl) AddUserCredits(ctx context.Context, email string, amount int64, description string) (*dto.AddCreditsResponse, error) {
	if amount <= 0 {
		return &dto.AddCreditsResponse{Success: false, Error: "amount must be positive"}, nil
	}

	pointValue, err := s.settingsService.PointValue(ctx, s.db)
	if err != nil {
		return nil, err
	}

	if description == "" {
		description = "Recarga de WinnerPoints"
	}

	var newBalance int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		credit, err := s.creditRepo.GetOrCreate(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("get credit account: %w", err)
		}

		if err := s.creditRepo.AddBalance(ctx, tx, credit.ID, amount); err != nil {
			return fmt.Errorf("add balance: %w", err)
		}

		entry := &model.CreditTransaction{
			UserCreditID:     credit.ID,
			Amount:           amount,
			Type:             model.TxTypeAdd,
			Description:      description,
			PointValueAtTime: pointValue,
		}
		if err := s.creditRepo.CreateTransaction(ctx, tx, entry); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}

		newBalance = credit.Balance + amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.AddCreditsResponse{
		Success:    true,
		NewBalance: newBalance,
		Email:      email,
	}, nil
}

func (s *creditsServiceImpl) UseCreditsForPurchase(ctx context.Context, tx *gorm.DB, email string, amount int64, orderID uint) error {
	credit, err := s.creditRepo.FindByEmail(ctx, tx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrInsufficientBalance
	}
	if err != nil {
		return fmt.Errorf("find credit account: %w", err)
	}

	if err := s.creditRepo.DeductBalance(ctx, tx, credit.ID, amount); err != nil {
		return err
	}

	pointValue, err := s.settingsService.PointValue(ctx, tx)
	if err != nil {
		return err
	}

	id := orderID
	entry := &model.CreditTransaction{
		UserCreditID:     credit.ID,
		Amount:           -amount,
		Type:             model.TxTypePurchase,
		Description:      fmt.Sprintf("Compra pedido #%d", orderID),
		PointValueAtTime: pointValue,
		OrderID:          &id,
	}

	return s.creditRepo.CreateTransaction(ctx, tx, entry)
}

func (s *creditsServiceImpl) Balance(ctx context.Context, email string) (*dto.BalanceResponse, error) {
	pointValue, err := s.settingsService.PointValue(ctx, s.db)
	if err != nil {
		return nil, err
	}

	credit, err := s.creditRepo.FindByEmail(ctx, s.db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No account yet reads as a zero balance.
		return &dto.BalanceResponse{
			Email:      email,
			PointValue: pointValue,
			InSoles:    decimalFromWP(0, pointValue),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &dto.BalanceResponse{
		Email:      email,
		Balance:    credit.Balance,
		PointValue: pointValue,
		InSoles:    decimalFromWP(credit.Balance, pointValue),
	}, nil
}

func (s *creditsServiceImpl) History(ctx context.Context, email string) ([]*model.CreditTransaction, error) {
	credit, err := s.creditRepo.FindByEmail(ctx, s.db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []*model.CreditTransaction{}, nil
	}
	if err != nil {
		return nil, err
	}

	return s.creditRepo.ListTransactions(ctx, credit.ID)
}

func (s *creditsServiceImpl) ListAccounts(ctx context.Context) ([]*model.UserCredit, error) {
	return s.creditRepo.List(ctx)
}
