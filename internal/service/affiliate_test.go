package service

import (
	"context"
	"strings"
	"testing"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffiliateService_Register_Independent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	affiliate, err := env.affiliates.Register(ctx, &dto.RegisterAffiliateRequest{
		Name:  "Maria",
		Email: "maria@test.pe",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(affiliate.AffiliateCode, "WIN"))
	assert.Len(t, affiliate.AffiliateCode, 9)
	assert.Nil(t, affiliate.ReferredBy)
	assert.Equal(t, model.AffiliateStatusActive, affiliate.Status)
}

func TestAffiliateService_Register_UnknownInvitationCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// An invitation code nobody owns yields an independent affiliate,
	// not an error.
	affiliate, err := env.affiliates.Register(ctx, &dto.RegisterAffiliateRequest{
		Name:           "Jorge",
		Email:          "jorge@test.pe",
		InvitationCode: "WINXYZ999",
	})
	require.NoError(t, err)
	assert.Nil(t, affiliate.ReferredBy)

	edges, err := env.referralRepo.GetUpline(ctx, env.db, affiliate.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestAffiliateService_Register_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.affiliates.Register(ctx, &dto.RegisterAffiliateRequest{Name: "Ana", Email: "ana@test.pe"})
	require.NoError(t, err)

	_, err = env.affiliates.Register(ctx, &dto.RegisterAffiliateRequest{Name: "Ana", Email: "ana@test.pe"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestAffiliateService_Register_BuildsUplineEdges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 3)
	newest := chain[2]

	edges, err := env.referralRepo.GetUpline(ctx, env.db, newest.ID)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, chain[1].ID, edges[0].ReferrerID)
	assert.Equal(t, int32(1), edges[0].Level)
	assert.Equal(t, chain[0].ID, edges[1].ReferrerID)
	assert.Equal(t, int32(2), edges[1].Level)

	// Only the direct referrer's counter moves.
	direct, err := env.affiliateRepo.FindByID(ctx, env.db, chain[1].ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), direct.ReferralCount)

	root, err := env.affiliateRepo.FindByID(ctx, env.db, chain[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1), root.ReferralCount)
}

func TestAffiliateService_Register_CapsAtSevenLevels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 9)
	newest := chain[8]

	edges, err := env.referralRepo.GetUpline(ctx, env.db, newest.ID)
	require.NoError(t, err)
	require.Len(t, edges, model.MaxCommissionLevels)

	for i, edge := range edges {
		assert.Equal(t, int32(i+1), edge.Level)
		assert.Equal(t, chain[7-i].ID, edge.ReferrerID)
	}
}

func TestAffiliateService_Register_CycleAborts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain := env.registerChain(t, 2)

	// Corrupt the upline: the root now points at its own referral.
	err := env.db.Model(&model.Affiliate{}).
		Where("id = ?", chain[0].ID).
		Update("referred_by", chain[1].ID).Error
	require.NoError(t, err)

	_, err = env.affiliates.Register(ctx, &dto.RegisterAffiliateRequest{
		Name:           "Ciclo",
		Email:          "ciclo@test.pe",
		InvitationCode: chain[1].AffiliateCode,
	})
	assert.ErrorIs(t, err, ErrReferralCycle)

	// The transaction rolled the affiliate row back too.
	var count int64
	require.NoError(t, env.db.Model(&model.Affiliate{}).
		Where("email = ?", "ciclo@test.pe").
		Count(&count).Error)
	assert.Zero(t, count)
}
