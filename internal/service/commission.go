package service

import (
	"context"
	"errors"
	"fmt"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var oneHundred = decimal.NewFromInt(100)

type CommissionService interface {
	// CreateOrderCommissions fans an order out into one pending
	// commission per ancestor level, inside the caller's transaction.
	// A missing or unresolvable affiliate code is a no-op.
	CreateOrderCommissions(ctx context.Context, tx *gorm.DB, order *model.Order) error
	// ProcessCommissionToWP converts one commission into a points
	// credit for the owning affiliate. Errors on a second attempt.
	ProcessCommissionToWP(ctx context.Context, commissionID uint) error
	// CreditOrderCommissions converts every uncredited commission of
	// an order, inside the caller's transaction. Used by payment
	// verification.
	CreditOrderCommissions(ctx context.Context, tx *gorm.DB, orderID uint) error
	ListByAffiliate(ctx context.Context, affiliateID uint) ([]*model.Commission, error)
}

type commissionServiceImpl struct {
	db              *gorm.DB
	affiliateRepo   repository.AffiliateRepository
	referralRepo    repository.ReferralRepository
	commissionRepo  repository.CommissionRepository
	creditRepo      repository.CreditRepository
	settingsService SettingsService
}

func NewCommissionService(
	db *gorm.DB,
	affiliateRepo repository.AffiliateRepository,
	referralRepo repository.ReferralRepository,
	commissionRepo repository.CommissionRepository,
	creditRepo repository.CreditRepository,
	settingsService SettingsService,
) CommissionService {
	return &commissionServiceImpl{
		db:              db,
		affiliateRepo:   affiliateRepo,
		referralRepo:    referralRepo,
		commissionRepo:  commissionRepo,
		creditRepo:      creditRepo,
		settingsService: settingsService,
	}
}

func (s *commissionServiceImpl) CreateOrderCommissions(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	if order.AffiliateCode == "" {
		return nil
	}

	referrer, err := s.affiliateRepo.FindByCode(ctx, tx, order.AffiliateCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unresolvable code: no commissions, not an error.
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve affiliate code: %w", err)
	}

	rates, err := s.settingsService.CommissionRates(ctx, tx)
	if err != nil {
		return err
	}
	pointValue, err := s.settingsService.PointValue(ctx, tx)
	if err != nil {
		return err
	}

	// The code owner earns at level 1, its recorded ancestors shift
	// one level down, capped at 7.
	beneficiaries := []struct {
		affiliateID uint
		level       int32
	}{{referrer.ID, 1}}

	upline, err := s.referralRepo.GetUpline(ctx, tx, referrer.ID)
	if err != nil {
		return fmt.Errorf("get upline: %w", err)
	}
	for _, edge := range upline {
		level := edge.Level + 1
		if level > model.MaxCommissionLevels {
			break
		}
		beneficiaries = append(beneficiaries, struct {
			affiliateID uint
			level       int32
		}{edge.ReferrerID, level})
	}

	for _, b := range beneficiaries {
		amount := order.Amount.Mul(rates[b.level-1]).Div(oneHundred).Round(2)
		wpAmount := amount.Div(pointValue).Floor().IntPart()

		commission := &model.Commission{
			AffiliateID: b.affiliateID,
			OrderID:     order.ID,
			Level:       b.level,
			Amount:      amount,
			WPAmount:    wpAmount,
			Status:      model.CommissionStatusPending,
		}
		if err := s.commissionRepo.Create(ctx, tx, commission); err != nil {
			return fmt.Errorf("create level %d commission: %w", b.level, err)
		}

		sales := decimal.Zero
		if b.level == 1 {
			sales = order.Amount
		}
		if err := s.affiliateRepo.AddTotals(ctx, tx, b.affiliateID, sales, amount); err != nil {
			return fmt.Errorf("update affiliate totals: %w", err)
		}
	}

	return nil
}

func (s *commissionServiceImpl) ProcessCommissionToWP(ctx context.Context, commissionID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commission, err := s.commissionRepo.FindByID(ctx, tx, commissionID)
		if err != nil {
			return fmt.Errorf("find commission: %w", err)
		}
		if commission.WPCredited {
			return ErrAlreadyCredited
		}

		return s.creditCommission(ctx, tx, commission)
	})
}

func (s *commissionServiceImpl) CreditOrderCommissions(ctx context.Context, tx *gorm.DB, orderID uint) error {
	commissions, err := s.commissionRepo.ListUncreditedByOrder(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("list order commissions: %w", err)
	}

	for _, commission := range commissions {
		if err := s.creditCommission(ctx, tx, commission); err != nil {
			return err
		}
	}

	return nil
}

func (s *commissionServiceImpl) creditCommission(ctx context.Context, tx *gorm.DB, commission *model.Commission) error {
	// The guarded update runs first so two concurrent conversions can
	// not both credit.
	if err := s.commissionRepo.MarkCredited(ctx, tx, commission.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlreadyCredited
		}
		return fmt.Errorf("mark commission credited: %w", err)
	}

	affiliate, err := s.affiliateRepo.FindByID(ctx, tx, commission.AffiliateID)
	if err != nil {
		return fmt.Errorf("find commission affiliate: %w", err)
	}

	credit, err := s.creditRepo.GetOrCreate(ctx, tx, affiliate.Email)
	if err != nil {
		return fmt.Errorf("get affiliate credit account: %w", err)
	}

	if err := s.creditRepo.AddBalance(ctx, tx, credit.ID, commission.WPAmount); err != nil {
		return fmt.Errorf("credit commission points: %w", err)
	}

	pointValue, err := s.settingsService.PointValue(ctx, tx)
	if err != nil {
		return err
	}

	orderID := commission.OrderID
	entry := &model.CreditTransaction{
		UserCreditID:     credit.ID,
		Amount:           commission.WPAmount,
		Type:             model.TxTypeCommission,
		Description:      fmt.Sprintf("Comisión nivel %d, pedido #%d", commission.Level, commission.OrderID),
		PointValueAtTime: pointValue,
		OrderID:          &orderID,
	}

	return s.creditRepo.CreateTransaction(ctx, tx, entry)
}

func (s *commissionServiceImpl) ListByAffiliate(ctx context.Context, affiliateID uint) ([]*model.Commission, error) {
	return s.commissionRepo.ListByAffiliate(ctx, affiliateID)
}
