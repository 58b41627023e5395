package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"
	"winnerstore/internal/storage"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	// Checkout prices the items, debits stock (and the points balance
	// for WP orders) and creates commissions, all in one transaction.
	// Any step failing rolls the whole order back.
	Checkout(ctx context.Context, email string, req *dto.CheckoutRequest) (*model.Order, error)
	// SubmitPaymentProof stores the uploaded image and opens the
	// manual verification path for a cash order.
	SubmitPaymentProof(ctx context.Context, orderID uint, method, ext string, file io.Reader, amount decimal.Decimal) (*model.PaymentProof, error)
	Get(ctx context.Context, orderID uint) (*model.Order, error)
	GetItems(ctx context.Context, orderID uint) ([]*model.OrderItem, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)
	ListPendingVerification(ctx context.Context) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status string) error
}

type orderServiceImpl struct {
	db                *gorm.DB
	orderRepo         repository.OrderRepository
	productRepo       repository.ProductRepository
	proofRepo         repository.PaymentProofRepository
	creditsService    CreditsService
	commissionService CommissionService
	store             storage.Storage
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	proofRepo repository.PaymentProofRepository,
	creditsService CreditsService,
	commissionService CommissionService,
	store storage.Storage,
) OrderService {
	return &orderServiceImpl{
		db:                db,
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		proofRepo:         proofRepo,
		creditsService:    creditsService,
		commissionService: commissionService,
		store:             store,
	}
}

func (s *orderServiceImpl) Checkout(ctx context.Context, email string, req *dto.CheckoutRequest) (*model.Order, error) {
	// Duplicate lines for the same product merge into one.
	productIDs := make([]uint, 0, len(req.Items))
	itemQuantityMap := make(map[uint]int32)
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive")
		}
		if _, seen := itemQuantityMap[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		itemQuantityMap[item.ProductID] += item.Quantity
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	if len(products) != len(productIDs) {
		return nil, ErrProductNotFound
	}
	for _, product := range products {
		if !product.Active {
			return nil, ErrProductNotFound
		}
	}

	totalAmount := decimal.Zero
	totalWP := int64(0)
	for _, product := range products {
		quantity := itemQuantityMap[product.ID]
		totalAmount = totalAmount.Add(product.Price.Mul(decimal.NewFromInt32(quantity)))
		totalWP += product.PriceWP * int64(quantity)
	}

	paymentStatus := model.PaymentStatusPendingVerification
	if req.PaymentType == model.PaymentTypePoints {
		paymentStatus = model.PaymentStatusCompleted
	}

	order := &model.Order{
		UserEmail:     email,
		AffiliateCode: req.AffiliateCode,
		Amount:        totalAmount,
		WPAmount:      totalWP,
		Status:        model.OrderStatusPending,
		PaymentType:   req.PaymentType,
		PaymentStatus: paymentStatus,

		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingPhone:   req.ShippingPhone,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		orderItems := make([]*model.OrderItem, len(products))
		for i, product := range products {
			quantity := itemQuantityMap[product.ID]
			orderItems[i] = &model.OrderItem{
				OrderID:     order.ID,
				ProductID:   product.ID,
				Quantity:    quantity,
				UnitPrice:   product.Price,
				UnitPriceWP: product.PriceWP,
			}

			if err := s.productRepo.DecrementStock(ctx, tx, product.ID, quantity); err != nil {
				return err
			}
		}

		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		if req.PaymentType == model.PaymentTypePoints {
			if err := s.creditsService.UseCreditsForPurchase(ctx, tx, email, totalWP, order.ID); err != nil {
				return err
			}
		}

		// Commissions accrue pending for both payment paths; cash
		// ones only convert to points once the payment is verified.
		return s.commissionService.CreateOrderCommissions(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderServiceImpl) SubmitPaymentProof(ctx context.Context, orderID uint, method, ext string, file io.Reader, amount decimal.Decimal) (*model.PaymentProof, error) {
	order, err := s.orderRepo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.PaymentStatus != model.PaymentStatusPendingVerification {
		return nil, ErrOrderNotPending
	}

	// One open proof per order; resubmission waits for the review.
	pending, err := s.proofRepo.HasPendingForOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("check pending proof: %w", err)
	}
	if pending {
		return nil, ErrProofPending
	}

	proofURL, err := s.store.Save(storage.BucketPaymentProofs, ext, file)
	if err != nil {
		return nil, fmt.Errorf("store payment proof: %w", err)
	}

	proof := &model.PaymentProof{
		OrderID:       orderID,
		ProofURL:      proofURL,
		PaymentMethod: method,
		Amount:        amount,
		Status:        model.RequestStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.proofRepo.Create(ctx, tx, proof)
	})
	if err != nil {
		return nil, err
	}

	return proof, nil
}

func (s *orderServiceImpl) Get(ctx context.Context, orderID uint) (*model.Order, error) {
	return s.orderRepo.FindByID(ctx, s.db, orderID)
}

func (s *orderServiceImpl) GetItems(ctx context.Context, orderID uint) ([]*model.OrderItem, error) {
	return s.orderRepo.GetOrderItems(ctx, s.db, orderID)
}

func (s *orderServiceImpl) ListByEmail(ctx context.Context, email string) ([]*model.Order, error) {
	return s.orderRepo.ListByEmail(ctx, email)
}

func (s *orderServiceImpl) List(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.List(ctx)
}

func (s *orderServiceImpl) ListPendingVerification(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListPendingVerification(ctx)
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("order %d not found", orderID)
	}

	return err
}
