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

type WithdrawalService interface {
	// Request validates the amount against the balance and records a
	// pending payout stamped with the point value of the moment.
	Request(ctx context.Context, email string, input *dto.WithdrawalRequestInput) (*model.WithdrawalRequest, error)
	// Process resolves a pending request. Approval debits the balance
	// with a conditional update, so approving twice or approving past
	// the balance can never double-debit.
	Process(ctx context.Context, id uint, approved bool, adminNotes string) (*dto.Result, error)
	ListByEmail(ctx context.Context, email string) ([]*model.WithdrawalRequest, error)
	List(ctx context.Context) ([]*model.WithdrawalRequest, error)
}

type withdrawalServiceImpl struct {
	db              *gorm.DB
	creditRepo      repository.CreditRepository
	withdrawalRepo  repository.WithdrawalRepository
	settingsService SettingsService
}

func NewWithdrawalService(
	db *gorm.DB,
	creditRepo repository.CreditRepository,
	withdrawalRepo repository.WithdrawalRepository,
	settingsService SettingsService,
) WithdrawalService {
	return &withdrawalServiceImpl{
		db:              db,
		creditRepo:      creditRepo,
		withdrawalRepo:  withdrawalRepo,
		settingsService: settingsService,
	}
}

func (s *withdrawalServiceImpl) Request(ctx context.Context, email string, input *dto.WithdrawalRequestInput) (*model.WithdrawalRequest, error) {
	credit, err := s.creditRepo.FindByEmail(ctx, s.db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoCreditAccount
	}
	if err != nil {
		return nil, fmt.Errorf("find credit account: %w", err)
	}

	// Authoritative here, re-checked again at approval time.
	if input.Amount > credit.Balance {
		return nil, repository.ErrInsufficientBalance
	}

	pointValue, err := s.settingsService.PointValue(ctx, s.db)
	if err != nil {
		return nil, err
	}

	request := &model.WithdrawalRequest{
		UserCreditID:        credit.ID,
		Amount:              input.Amount,
		AmountInSoles:       decimal.NewFromInt(input.Amount).Mul(pointValue).Round(2),
		PointValueAtRequest: pointValue,
		PaymentMethod:       input.PaymentMethod,
		PaymentDetails:      input.PaymentDetails,
		Status:              model.RequestStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.withdrawalRepo.Create(ctx, tx, request)
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (s *withdrawalServiceImpl) Process(ctx context.Context, id uint, approved bool, adminNotes string) (*dto.Result, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, err := s.withdrawalRepo.FindByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("find withdrawal request: %w", err)
		}

		status := model.RequestStatusRejected
		if approved {
			status = model.RequestStatusApproved
		}

		// The pending-only guard runs before any balance change, a
		// second approval fails here and touches nothing.
		if err := s.withdrawalRepo.MarkProcessed(ctx, tx, id, status, adminNotes); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAlreadyProcessed
			}
			return fmt.Errorf("mark withdrawal processed: %w", err)
		}

		if !approved {
			return nil
		}

		if err := s.creditRepo.DeductBalance(ctx, tx, request.UserCreditID, request.Amount); err != nil {
			return err
		}

		entry := &model.CreditTransaction{
			UserCreditID:     request.UserCreditID,
			Amount:           -request.Amount,
			Type:             model.TxTypeWithdrawal,
			Description:      fmt.Sprintf("Retiro #%d vía %s", request.ID, request.PaymentMethod),
			PointValueAtTime: request.PointValueAtRequest,
		}
		return s.creditRepo.CreateTransaction(ctx, tx, entry)
	})

	if errors.Is(err, ErrAlreadyProcessed) {
		return &dto.Result{Success: false, Error: "request already processed"}, nil
	}
	if errors.Is(err, repository.ErrInsufficientBalance) {
		return &dto.Result{Success: false, Error: "insufficient balance at approval time"}, nil
	}
	if err != nil {
		return nil, err
	}

	message := "retiro aprobado"
	if !approved {
		message = "retiro rechazado"
	}

	return &dto.Result{Success: true, Message: message}, nil
}

func (s *withdrawalServiceImpl) ListByEmail(ctx context.Context, email string) ([]*model.WithdrawalRequest, error) {
	credit, err := s.creditRepo.FindByEmail(ctx, s.db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []*model.WithdrawalRequest{}, nil
	}
	if err != nil {
		return nil, err
	}

	return s.withdrawalRepo.ListByCredit(ctx, credit.ID)
}

func (s *withdrawalServiceImpl) List(ctx context.Context) ([]*model.WithdrawalRequest, error) {
	return s.withdrawalRepo.List(ctx)
}
