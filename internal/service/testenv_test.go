package service

import (
	"context"
	"fmt"
	"testing"
	"winnerstore/internal/client"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"
	"winnerstore/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the full service graph over an in-memory sqlite
// database, the same gorm code path production runs on mysql.
type testEnv struct {
	db *gorm.DB

	affiliateRepo  repository.AffiliateRepository
	referralRepo   repository.ReferralRepository
	productRepo    repository.ProductRepository
	orderRepo      repository.OrderRepository
	commissionRepo repository.CommissionRepository
	creditRepo     repository.CreditRepository
	withdrawalRepo repository.WithdrawalRepository
	proofRepo      repository.PaymentProofRepository
	settingsRepo   repository.SettingsRepository

	settings     SettingsService
	affiliates   AffiliateService
	commissions  CommissionService
	credits      CreditsService
	orders       OrderService
	withdrawals  WithdrawalService
	verification VerificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every session sees the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.AutoMigrate(db))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	env := &testEnv{
		db:             db,
		affiliateRepo:  repository.NewAffiliateRepository(db),
		referralRepo:   repository.NewReferralRepository(db),
		productRepo:    repository.NewProductRepository(db),
		orderRepo:      repository.NewOrderRepository(db),
		commissionRepo: repository.NewCommissionRepository(db),
		creditRepo:     repository.NewCreditRepository(db),
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		proofRepo:      repository.NewPaymentProofRepository(db),
		settingsRepo:   repository.NewSettingsRepository(db),
	}

	env.settings = NewSettingsService(env.settingsRepo, decimal.RequireFromString("0.10"))
	env.affiliates = NewAffiliateService(db, env.affiliateRepo, env.referralRepo)
	env.commissions = NewCommissionService(db, env.affiliateRepo, env.referralRepo, env.commissionRepo, env.creditRepo, env.settings)
	env.credits = NewCreditsService(db, env.creditRepo, env.settings)
	env.orders = NewOrderService(db, env.orderRepo, env.productRepo, env.proofRepo, env.credits, env.commissions, store)
	env.withdrawals = NewWithdrawalService(db, env.creditRepo, env.withdrawalRepo, env.settings)
	env.verification = NewVerificationService(db, env.orderRepo, env.proofRepo, env.productRepo, env.commissions)

	return env
}

// registerChain registers n affiliates where each one is invited by
// the previous, returning them root first.
func (env *testEnv) registerChain(t *testing.T, n int) []*model.Affiliate {
	t.Helper()

	ctx := context.Background()
	chain := make([]*model.Affiliate, n)

	for i := 0; i < n; i++ {
		req := &dto.RegisterAffiliateRequest{
			Name:  fmt.Sprintf("Afiliado %d", i+1),
			Email: fmt.Sprintf("afiliado%d@test.pe", i+1),
		}
		if i > 0 {
			req.InvitationCode = chain[i-1].AffiliateCode
		}

		affiliate, err := env.affiliates.Register(ctx, req)
		require.NoError(t, err)
		chain[i] = affiliate
	}

	return chain
}

func (env *testEnv) createProduct(t *testing.T, price string, priceWP int64, stock int32) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:    "Producto",
		Price:   decimal.RequireFromString(price),
		PriceWP: priceWP,
		Stock:   stock,
		Active:  true,
	}
	require.NoError(t, env.productRepo.Create(context.Background(), product))

	return product
}

func (env *testEnv) balance(t *testing.T, email string) int64 {
	t.Helper()

	resp, err := env.credits.Balance(context.Background(), email)
	require.NoError(t, err)

	return resp.Balance
}
