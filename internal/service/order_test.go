package service

import (
	"context"
	"strings"
	"testing"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderService_Checkout_WithPoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "50.00", 500, 10)
	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 1200, "")
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 2}},
		PaymentType: model.PaymentTypePoints,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusCompleted, order.PaymentStatus)
	assert.Equal(t, int64(1000), order.WPAmount)
	assert.True(t, order.Amount.Equal(decimal.RequireFromString("100.00")))

	assert.Equal(t, int64(200), env.balance(t, "cliente@test.pe"))

	stocked, err := env.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(8), stocked.Stock)

	items, err := env.orders.GetItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(2), items[0].Quantity)
	assert.Equal(t, int64(500), items[0].UnitPriceWP)
}

func TestOrderService_Checkout_InsufficientBalanceRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "50.00", 500, 10)
	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 300, "")
	require.NoError(t, err)

	_, err = env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType: model.PaymentTypePoints,
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	// Neither the order nor the stock decrement survives.
	var count int64
	require.NoError(t, env.db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	stocked, err := env.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(10), stocked.Stock)
	assert.Equal(t, int64(300), env.balance(t, "cliente@test.pe"))
}

func TestOrderService_Checkout_InsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "10.00", 100, 1)
	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 1000, "")
	require.NoError(t, err)

	_, err = env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 3}},
		PaymentType: model.PaymentTypePoints,
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	assert.Equal(t, int64(1000), env.balance(t, "cliente@test.pe"))
	var count int64
	require.NoError(t, env.db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_Checkout_MergesDuplicateLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "10.00", 100, 10)
	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 1000, "")
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items: []*dto.CheckoutItem{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 1},
		},
		PaymentType: model.PaymentTypePoints,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(300), order.WPAmount)
	assert.Equal(t, int64(700), env.balance(t, "cliente@test.pe"))

	items, err := env.orders.GetItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(3), items[0].Quantity)

	stocked, err := env.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(7), stocked.Stock)
}

func TestOrderService_Checkout_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.Checkout(context.Background(), "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: 999, Quantity: 1}},
		PaymentType: model.PaymentTypeCash,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestOrderService_Checkout_CashPendingVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 1)
	product := env.createProduct(t, "100.00", 1000, 5)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:         []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType:   model.PaymentTypeCash,
		AffiliateCode: chain[0].AffiliateCode,
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusPendingVerification, order.PaymentStatus)

	// Stock is held immediately, commissions accrue but stay uncredited.
	stocked, err := env.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(4), stocked.Stock)

	commissions, err := env.commissions.ListByAffiliate(ctx, chain[0].ID)
	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.False(t, commissions[0].WPCredited)
	assert.Equal(t, int64(0), env.balance(t, chain[0].Email))
}

func TestOrderService_SubmitPaymentProof(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "100.00", 1000, 5)
	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType: model.PaymentTypeCash,
	})
	require.NoError(t, err)

	proof, err := env.orders.SubmitPaymentProof(ctx, order.ID, "Yape", ".jpg",
		strings.NewReader("imagen"), decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	assert.Equal(t, order.ID, proof.OrderID)
	assert.Equal(t, model.RequestStatusPending, proof.Status)
	assert.Contains(t, proof.ProofURL, "/storage/payment-proofs/")
}

func TestOrderService_SubmitPaymentProof_DuplicatePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "100.00", 1000, 5)
	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType: model.PaymentTypeCash,
	})
	require.NoError(t, err)

	_, err = env.orders.SubmitPaymentProof(ctx, order.ID, "Yape", ".jpg",
		strings.NewReader("imagen"), decimal.RequireFromString("100.00"))
	require.NoError(t, err)

	// A second proof must wait for the first one's review.
	_, err = env.orders.SubmitPaymentProof(ctx, order.ID, "Plin", ".jpg",
		strings.NewReader("otra imagen"), decimal.RequireFromString("100.00"))
	assert.ErrorIs(t, err, ErrProofPending)

	proofs, err := env.verification.ListProofs(ctx)
	require.NoError(t, err)
	assert.Len(t, proofs, 1)
}

func TestOrderService_SubmitPaymentProof_CompletedOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "10.00", 100, 5)
	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 100, "")
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType: model.PaymentTypePoints,
	})
	require.NoError(t, err)

	_, err = env.orders.SubmitPaymentProof(ctx, order.ID, "Yape", ".jpg",
		strings.NewReader("imagen"), decimal.RequireFromString("10.00"))
	assert.ErrorIs(t, err, ErrOrderNotPending)
}

func TestVerificationService_Approve_CreditsCommissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 2)
	product := env.createProduct(t, "100.00", 1000, 5)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:         []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType:   model.PaymentTypeCash,
		AffiliateCode: chain[1].AffiliateCode,
	})
	require.NoError(t, err)

	result, err := env.verification.VerifyDirectPayment(ctx, order.ID, true, "comprobante ok")
	require.NoError(t, err)
	assert.True(t, result.Success)

	verified, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, verified.PaymentStatus)

	// 10% of 100.00 = 10.00 soles = 100 WP; 4% = 4.00 soles = 40 WP.
	assert.Equal(t, int64(100), env.balance(t, chain[1].Email))
	assert.Equal(t, int64(40), env.balance(t, chain[0].Email))
}

func TestVerificationService_Approve_Twice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 1)
	product := env.createProduct(t, "100.00", 1000, 5)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:         []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType:   model.PaymentTypeCash,
		AffiliateCode: chain[0].AffiliateCode,
	})
	require.NoError(t, err)

	result, err := env.verification.VerifyDirectPayment(ctx, order.ID, true, "")
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = env.verification.VerifyDirectPayment(ctx, order.ID, true, "")
	require.NoError(t, err)
	assert.False(t, result.Success)

	// The commission converted exactly once.
	assert.Equal(t, int64(100), env.balance(t, chain[0].Email))
}

func TestVerificationService_Reject_RestoresStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 1)
	product := env.createProduct(t, "100.00", 1000, 5)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:         []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 2}},
		PaymentType:   model.PaymentTypeCash,
		AffiliateCode: chain[0].AffiliateCode,
	})
	require.NoError(t, err)

	result, err := env.verification.VerifyDirectPayment(ctx, order.ID, false, "sin depósito")
	require.NoError(t, err)
	assert.True(t, result.Success)

	cancelled, err := env.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, model.PaymentStatusRejected, cancelled.PaymentStatus)

	stocked, err := env.productRepo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(5), stocked.Stock)

	// Pending commissions never convert for a rejected payment.
	assert.Equal(t, int64(0), env.balance(t, chain[0].Email))
}

func TestVerificationService_PointsOrderNotVerifiable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "10.00", 100, 5)
	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 100, "")
	require.NoError(t, err)

	order, err := env.orders.Checkout(ctx, "cliente@test.pe", &dto.CheckoutRequest{
		Items:       []*dto.CheckoutItem{{ProductID: product.ID, Quantity: 1}},
		PaymentType: model.PaymentTypePoints,
	})
	require.NoError(t, err)

	result, err := env.verification.VerifyDirectPayment(ctx, order.ID, true, "")
	require.NoError(t, err)
	assert.False(t, result.Success)
}
