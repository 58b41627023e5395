package repository

import (
	"context"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	List(ctx context.Context) ([]*model.Category, error)
}

type categoryRepoImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepoImpl{
		db: db,
	}
}

func (r *categoryRepoImpl) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepoImpl) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}
