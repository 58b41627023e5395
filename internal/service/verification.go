package service

import (
	"context"
	"errors"
	"fmt"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"

	"gorm.io/gorm"
)

type VerificationService interface {
	// VerifyDirectPayment resolves a cash order after admin review.
	// Approval marks the order paid and converts its pending
	// commissions to points; rejection cancels the order and restores
	// stock. Only pending_verification orders transition, re-clicking
	// either button is a clean business rejection.
	VerifyDirectPayment(ctx context.Context, orderID uint, approved bool, adminNotes string) (*dto.Result, error)
	ListProofs(ctx context.Context) ([]*model.PaymentProof, error)
}

type verificationServiceImpl struct {
	db                *gorm.DB
	orderRepo         repository.OrderRepository
	proofRepo         repository.PaymentProofRepository
	productRepo       repository.ProductRepository
	commissionService CommissionService
}

func NewVerificationService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	proofRepo repository.PaymentProofRepository,
	productRepo repository.ProductRepository,
	commissionService CommissionService,
) VerificationService {
	return &verificationServiceImpl{
		db:                db,
		orderRepo:         orderRepo,
		proofRepo:         proofRepo,
		productRepo:       productRepo,
		commissionService: commissionService,
	}
}

func (s *verificationServiceImpl) VerifyDirectPayment(ctx context.Context, orderID uint, approved bool, adminNotes string) (*dto.Result, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if approved {
			return s.approve(ctx, tx, orderID, adminNotes)
		}
		return s.reject(ctx, tx, orderID, adminNotes)
	})

	if errors.Is(err, ErrAlreadyProcessed) {
		return &dto.Result{Success: false, Error: "order already resolved or not pending verification"}, nil
	}
	if err != nil {
		return nil, err
	}

	message := "pago verificado"
	if !approved {
		message = "pago rechazado"
	}

	return &dto.Result{Success: true, Message: message}, nil
}

func (s *verificationServiceImpl) approve(ctx context.Context, tx *gorm.DB, orderID uint, adminNotes string) error {
	if err := s.orderRepo.MarkVerified(ctx, tx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlreadyProcessed
		}
		return fmt.Errorf("mark order verified: %w", err)
	}

	// An order can reach verification without an uploaded proof (bank
	// transfer arranged offline), so a missing proof row is fine.
	err := s.proofRepo.MarkReviewed(ctx, tx, orderID, model.RequestStatusApproved, adminNotes)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("mark proof reviewed: %w", err)
	}

	return s.commissionService.CreditOrderCommissions(ctx, tx, orderID)
}

func (s *verificationServiceImpl) reject(ctx context.Context, tx *gorm.DB, orderID uint, adminNotes string) error {
	if err := s.orderRepo.MarkCancelled(ctx, tx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlreadyProcessed
		}
		return fmt.Errorf("cancel order: %w", err)
	}

	err := s.proofRepo.MarkReviewed(ctx, tx, orderID, model.RequestStatusRejected, adminNotes)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("mark proof reviewed: %w", err)
	}

	// The stock was held at checkout, a rejected payment releases it.
	items, err := s.orderRepo.GetOrderItems(ctx, tx, orderID)
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}
	for _, item := range items {
		if err := s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	return nil
}

func (s *verificationServiceImpl) ListProofs(ctx context.Context) ([]*model.PaymentProof, error) {
	return s.proofRepo.List(ctx)
}
