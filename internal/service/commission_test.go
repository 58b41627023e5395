package service

import (
	"context"
	"testing"
	"winnerstore/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (env *testEnv) createOrder(t *testing.T, amount, code string) *model.Order {
	t.Helper()

	order := &model.Order{
		UserEmail:     "comprador@test.pe",
		AffiliateCode: code,
		Amount:        decimal.RequireFromString(amount),
		Status:        model.OrderStatusPending,
		PaymentType:   model.PaymentTypeCash,
		PaymentStatus: model.PaymentStatusPendingVerification,
	}
	require.NoError(t, env.orderRepo.Create(context.Background(), env.db, order))

	return order
}

func TestCommissionService_CreateOrderCommissions_PerLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A refers B, B refers C. An order with C's code pays C at level
	// 1, B at level 2 and A at level 3.
	chain := env.registerChain(t, 3)
	order := env.createOrder(t, "1000.00", chain[2].AffiliateCode)

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.commissions.CreateOrderCommissions(ctx, tx, order)
	})
	require.NoError(t, err)

	expected := map[uint]string{
		chain[2].ID: "100.00", // 10%
		chain[1].ID: "40.00",  // 4%
		chain[0].ID: "20.00",  // 2%
	}

	total := 0
	for affiliateID, amount := range expected {
		commissions, err := env.commissions.ListByAffiliate(ctx, affiliateID)
		require.NoError(t, err)
		require.Len(t, commissions, 1)

		commission := commissions[0]
		assert.Equal(t, order.ID, commission.OrderID)
		assert.True(t, commission.Amount.Equal(decimal.RequireFromString(amount)),
			"affiliate %d: got %s", affiliateID, commission.Amount)
		assert.Equal(t, model.CommissionStatusPending, commission.Status)
		assert.False(t, commission.WPCredited)
		total++
	}
	assert.Equal(t, 3, total)
}

func TestCommissionService_CreateOrderCommissions_NoCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// The purchaser must supply the code at checkout; prior referral
	// history alone attributes nothing.
	env.registerChain(t, 2)
	order := env.createOrder(t, "1000.00", "")

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.commissions.CreateOrderCommissions(ctx, tx, order)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&model.Commission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommissionService_CreateOrderCommissions_UnresolvableCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := env.createOrder(t, "500.00", "WINNADIE00")

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.commissions.CreateOrderCommissions(ctx, tx, order)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&model.Commission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommissionService_CreateOrderCommissions_LongChainCapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 9)
	order := env.createOrder(t, "1000.00", chain[8].AffiliateCode)

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.commissions.CreateOrderCommissions(ctx, tx, order)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&model.Commission{}).
		Where("order_id = ?", order.ID).
		Count(&count).Error)
	assert.Equal(t, int64(model.MaxCommissionLevels), count)
}

func TestCommissionService_CreateOrderCommissions_ConfiguredRates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Admin-configured rates override the defaults, and the fan-out
	// reads them on the order's own transaction.
	require.NoError(t, env.settingsRepo.Set(ctx, model.SettingCommissionRatePrefix+"1", "20"))

	chain := env.registerChain(t, 1)
	order := env.createOrder(t, "150.00", chain[0].AffiliateCode)

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.commissions.CreateOrderCommissions(ctx, tx, order)
	})
	require.NoError(t, err)

	commissions, err := env.commissions.ListByAffiliate(ctx, chain[0].ID)
	require.NoError(t, err)
	require.Len(t, commissions, 1)
	assert.True(t, commissions[0].Amount.Equal(decimal.RequireFromString("30.00")))
}

func TestCommissionService_CreateOrderCommissions_UpdatesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 2)
	order := env.createOrder(t, "200.00", chain[1].AffiliateCode)

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.commissions.CreateOrderCommissions(ctx, tx, order)
	})
	require.NoError(t, err)

	direct, err := env.affiliateRepo.FindByID(ctx, env.db, chain[1].ID)
	require.NoError(t, err)
	assert.True(t, direct.TotalSales.Equal(decimal.RequireFromString("200.00")))
	assert.True(t, direct.TotalCommissions.Equal(decimal.RequireFromString("20.00")))

	// Uplines accrue commissions but not direct sales.
	upline, err := env.affiliateRepo.FindByID(ctx, env.db, chain[0].ID)
	require.NoError(t, err)
	assert.True(t, upline.TotalSales.IsZero())
	assert.True(t, upline.TotalCommissions.Equal(decimal.RequireFromString("8.00")))
}

func TestCommissionService_ProcessCommissionToWP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 1)
	order := env.createOrder(t, "100.00", chain[0].AffiliateCode)

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.commissions.CreateOrderCommissions(ctx, tx, order)
	})
	require.NoError(t, err)

	commissions, err := env.commissions.ListByAffiliate(ctx, chain[0].ID)
	require.NoError(t, err)
	require.Len(t, commissions, 1)

	// 10.00 soles at 0.10 soles/WP -> 100 WP.
	require.NoError(t, env.commissions.ProcessCommissionToWP(ctx, commissions[0].ID))
	assert.Equal(t, int64(100), env.balance(t, chain[0].Email))

	credited, err := env.commissionRepo.FindByID(ctx, env.db, commissions[0].ID)
	require.NoError(t, err)
	assert.True(t, credited.WPCredited)
	assert.Equal(t, model.CommissionStatusPaid, credited.Status)

	// A second conversion must not double-credit.
	err = env.commissions.ProcessCommissionToWP(ctx, commissions[0].ID)
	assert.ErrorIs(t, err, ErrAlreadyCredited)
	assert.Equal(t, int64(100), env.balance(t, chain[0].Email))
}
