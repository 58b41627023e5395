package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"

	"gorm.io/gorm"
)

const (
	affiliateCodePrefix = "WIN"
	affiliateCodeLength = 6
	affiliateCodeRetry  = 8
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type AffiliateService interface {
	// Register creates an affiliate and builds its referral-graph
	// edges in one transaction. An unknown invitation code yields an
	// independent affiliate, not an error.
	Register(ctx context.Context, req *dto.RegisterAffiliateRequest) (*model.Affiliate, error)
	GetByCode(ctx context.Context, code string) (*model.Affiliate, error)
	GetByEmail(ctx context.Context, email string) (*model.Affiliate, error)
	GetDownline(ctx context.Context, affiliateID uint) ([]*model.Referral, error)
	List(ctx context.Context) ([]*model.Affiliate, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type affiliateServiceImpl struct {
	db            *gorm.DB
	affiliateRepo repository.AffiliateRepository
	referralRepo  repository.ReferralRepository
}

func NewAffiliateService(
	db *gorm.DB,
	affiliateRepo repository.AffiliateRepository,
	referralRepo repository.ReferralRepository,
) AffiliateService {
	return &affiliateServiceImpl{
		db:            db,
		affiliateRepo: affiliateRepo,
		referralRepo:  referralRepo,
	}
}

func (s *affiliateServiceImpl) Register(ctx context.Context, req *dto.RegisterAffiliateRequest) (*model.Affiliate, error) {
	if _, err := s.affiliateRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing affiliate: %w", err)
	}

	code, err := s.issueCode(ctx)
	if err != nil {
		return nil, err
	}

	// Invitation code not found means a fully independent affiliate.
	var referrer *model.Affiliate
	if req.InvitationCode != "" {
		referrer, err = s.affiliateRepo.FindByCode(ctx, s.db, req.InvitationCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resolve invitation code: %w", err)
		}
	}

	affiliate := &model.Affiliate{
		Name:          req.Name,
		Email:         req.Email,
		DNI:           req.DNI,
		AffiliateCode: code,
		Status:        model.AffiliateStatusActive,
	}
	if referrer != nil {
		affiliate.ReferredBy = &referrer.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.affiliateRepo.Create(ctx, tx, affiliate); err != nil {
			return fmt.Errorf("create affiliate: %w", err)
		}

		if referrer == nil {
			return nil
		}

		if err := s.buildReferralEdges(ctx, tx, affiliate, referrer); err != nil {
			return err
		}

		return s.affiliateRepo.IncrementReferralCount(ctx, tx, referrer.ID)
	})
	if err != nil {
		return nil, err
	}

	return affiliate, nil
}

// buildReferralEdges records one edge per ancestor, level 1 for the
// direct referrer up to level 7. The walk stops early when the chain
// terminates, and a visited set turns a corrupted cyclic chain into an
// error instead of garbage edges.
func (s *affiliateServiceImpl) buildReferralEdges(ctx context.Context, tx *gorm.DB, affiliate, referrer *model.Affiliate) error {
	visited := map[uint]bool{affiliate.ID: true}
	current := referrer

	for level := int32(1); level <= model.MaxCommissionLevels; level++ {
		if visited[current.ID] {
			return ErrReferralCycle
		}
		visited[current.ID] = true

		edge := &model.Referral{
			ReferrerID: current.ID,
			ReferredID: affiliate.ID,
			Level:      level,
		}
		if err := s.referralRepo.Create(ctx, tx, edge); err != nil {
			return fmt.Errorf("create referral edge level %d: %w", level, err)
		}

		if current.ReferredBy == nil {
			break
		}

		next, err := s.affiliateRepo.FindByID(ctx, tx, *current.ReferredBy)
		if err != nil {
			return fmt.Errorf("walk upline level %d: %w", level+1, err)
		}
		current = next
	}

	return nil
}

func (s *affiliateServiceImpl) issueCode(ctx context.Context) (string, error) {
	for i := 0; i < affiliateCodeRetry; i++ {
		code, err := generateAffiliateCode()
		if err != nil {
			return "", err
		}

		exists, err := s.affiliateRepo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check affiliate code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("could not issue a unique affiliate code")
}

func generateAffiliateCode() (string, error) {
	buf := make([]byte, affiliateCodeLength)
	max := big.NewInt(int64(len(codeCharset)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate affiliate code: %w", err)
		}
		buf[i] = codeCharset[n.Int64()]
	}

	return affiliateCodePrefix + string(buf), nil
}

func (s *affiliateServiceImpl) GetByCode(ctx context.Context, code string) (*model.Affiliate, error) {
	return s.affiliateRepo.FindByCode(ctx, s.db, code)
}

func (s *affiliateServiceImpl) GetByEmail(ctx context.Context, email string) (*model.Affiliate, error) {
	return s.affiliateRepo.FindByEmail(ctx, email)
}

func (s *affiliateServiceImpl) GetDownline(ctx context.Context, affiliateID uint) ([]*model.Referral, error) {
	return s.referralRepo.GetDownline(ctx, affiliateID)
}

func (s *affiliateServiceImpl) List(ctx context.Context) ([]*model.Affiliate, error) {
	return s.affiliateRepo.List(ctx)
}

func (s *affiliateServiceImpl) UpdateStatus(ctx context.Context, id uint, status string) error {
	if status != model.AffiliateStatusActive && status != model.AffiliateStatusInactive {
		return fmt.Errorf("invalid affiliate status %q", status)
	}

	return s.affiliateRepo.UpdateStatus(ctx, id, status)
}
