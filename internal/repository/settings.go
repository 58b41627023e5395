package repository

import (
	"context"
	"winnerstore/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	// Get reads through the given handle so settings lookups inside a
	// transaction stay on that transaction's connection.
	Get(ctx context.Context, tx *gorm.DB, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	GetAll(ctx context.Context) ([]*model.BusinessSetting, error)
	// Seed inserts defaults without overwriting existing rows.
	Seed(ctx context.Context, defaults map[string]string) error
}

type settingsRepoImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepoImpl{
		db: db,
	}
}

func (r *settingsRepoImpl) Get(ctx context.Context, tx *gorm.DB, key string) (string, error) {
	var setting model.BusinessSetting
	err := tx.WithContext(ctx).
		Where("`key` = ?", key).
		First(&setting).Error

	if err != nil {
		return "", err
	}

	return setting.Value, nil
}

func (r *settingsRepoImpl) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&model.BusinessSetting{Key: key, Value: value}).Error
}

func (r *settingsRepoImpl) GetAll(ctx context.Context) ([]*model.BusinessSetting, error) {
	var settings []*model.BusinessSetting
	err := r.db.WithContext(ctx).Find(&settings).Error
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *settingsRepoImpl) Seed(ctx context.Context, defaults map[string]string) error {
	settings := make([]*model.BusinessSetting, 0, len(defaults))
	for key, value := range defaults {
		settings = append(settings, &model.BusinessSetting{Key: key, Value: value})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&settings).Error
}
