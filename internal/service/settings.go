package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Default per-level commission percentages, historically summing to 21%.
var defaultCommissionRates = [model.MaxCommissionLevels]string{"10", "4", "2", "2", "1", "1", "1"}

type SettingsService interface {
	// PointValue returns the current WP value in soles, read through
	// the given handle so in-transaction callers see their own snapshot.
	PointValue(ctx context.Context, tx *gorm.DB) (decimal.Decimal, error)
	// CommissionRates returns the per-level percentage table, index 0
	// is level 1.
	CommissionRates(ctx context.Context, tx *gorm.DB) ([model.MaxCommissionLevels]decimal.Decimal, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) ([]*model.BusinessSetting, error)
	SeedDefaults(ctx context.Context) error
}

type settingsServiceImpl struct {
	settingsRepo      repository.SettingsRepository
	defaultPointValue decimal.Decimal
}

func NewSettingsService(settingsRepo repository.SettingsRepository, defaultPointValue decimal.Decimal) SettingsService {
	return &settingsServiceImpl{
		settingsRepo:      settingsRepo,
		defaultPointValue: defaultPointValue,
	}
}

func (s *settingsServiceImpl) PointValue(ctx context.Context, tx *gorm.DB) (decimal.Decimal, error) {
	raw, err := s.settingsRepo.Get(ctx, tx, model.SettingPointValue)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.defaultPointValue, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get point value setting: %w", err)
	}

	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid point value setting %q", raw)
	}

	return value, nil
}

func (s *settingsServiceImpl) CommissionRates(ctx context.Context, tx *gorm.DB) ([model.MaxCommissionLevels]decimal.Decimal, error) {
	var rates [model.MaxCommissionLevels]decimal.Decimal

	for i := 0; i < model.MaxCommissionLevels; i++ {
		key := model.SettingCommissionRatePrefix + strconv.Itoa(i+1)
		raw, err := s.settingsRepo.Get(ctx, tx, key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			raw = defaultCommissionRates[i]
		} else if err != nil {
			return rates, fmt.Errorf("get commission rate level %d: %w", i+1, err)
		}

		rate, err := decimal.NewFromString(raw)
		if err != nil || rate.IsNegative() {
			return rates, fmt.Errorf("invalid commission rate level %d: %q", i+1, raw)
		}
		rates[i] = rate
	}

	return rates, nil
}

func (s *settingsServiceImpl) Set(ctx context.Context, key, value string) error {
	return s.settingsRepo.Set(ctx, key, value)
}

func (s *settingsServiceImpl) GetAll(ctx context.Context) ([]*model.BusinessSetting, error) {
	return s.settingsRepo.GetAll(ctx)
}

func (s *settingsServiceImpl) SeedDefaults(ctx context.Context) error {
	defaults := map[string]string{
		model.SettingPointValue: s.defaultPointValue.String(),
	}
	for i, rate := range defaultCommissionRates {
		defaults[model.SettingCommissionRatePrefix+strconv.Itoa(i+1)] = rate
	}

	return s.settingsRepo.Seed(ctx, defaults)
}
