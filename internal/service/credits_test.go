package service

import (
	"context"
	"testing"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreditsService_AddUserCredits_CreatesAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.credits.AddUserCredits(ctx, "nuevo@test.pe", 500, "")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(500), resp.NewBalance)

	history, err := env.credits.History(ctx, "nuevo@test.pe")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.TxTypeAdd, history[0].Type)
	assert.Equal(t, int64(500), history[0].Amount)
	assert.True(t, history[0].PointValueAtTime.Equal(decimal.RequireFromString("0.10")))
}

func TestCreditsService_AddUserCredits_Accumulates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 300, "primera recarga")
	require.NoError(t, err)

	resp, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 200, "segunda recarga")
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.NewBalance)
	assert.Equal(t, int64(500), env.balance(t, "cliente@test.pe"))
}

func TestCreditsService_AddUserCredits_RejectsNonPositive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 0, "")
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, int64(0), env.balance(t, "cliente@test.pe"))
}

func TestCreditsService_UseCreditsForPurchase_Insufficient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 100, "")
	require.NoError(t, err)

	err = env.db.Transaction(func(tx *gorm.DB) error {
		return env.credits.UseCreditsForPurchase(ctx, tx, "cliente@test.pe", 150, 1)
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)

	// Balance and history untouched.
	assert.Equal(t, int64(100), env.balance(t, "cliente@test.pe"))
	history, err := env.credits.History(ctx, "cliente@test.pe")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCreditsService_UseCreditsForPurchase_NoAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.db.Transaction(func(tx *gorm.DB) error {
		return env.credits.UseCreditsForPurchase(ctx, tx, "fantasma@test.pe", 10, 1)
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)
}

func TestCreditsService_HistorySumsToBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.credits.AddUserCredits(ctx, "cliente@test.pe", 1000, "")
	require.NoError(t, err)

	err = env.db.Transaction(func(tx *gorm.DB) error {
		return env.credits.UseCreditsForPurchase(ctx, tx, "cliente@test.pe", 350, 7)
	})
	require.NoError(t, err)

	_, err = env.credits.AddUserCredits(ctx, "cliente@test.pe", 50, "")
	require.NoError(t, err)

	history, err := env.credits.History(ctx, "cliente@test.pe")
	require.NoError(t, err)

	var sum int64
	for _, entry := range history {
		sum += entry.Amount
	}
	assert.Equal(t, env.balance(t, "cliente@test.pe"), sum)
	assert.Equal(t, int64(700), sum)
}

func TestCreditsService_Balance_NoAccountReadsZero(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.credits.Balance(context.Background(), "nadie@test.pe")
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Balance)
	assert.True(t, resp.InSoles.IsZero())
	assert.True(t, resp.PointValue.Equal(decimal.RequireFromString("0.10")))
}
