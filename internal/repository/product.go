package repository

import (
	"context"
	"fmt"
	"winnerstore/internal/model"

	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a conditional stock decrement
// matches no row.
var ErrInsufficientStock = fmt.Errorf("insufficient stock")

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error)
	ListActive(ctx context.Context) ([]*model.Product, error)
	List(ctx context.Context) ([]*model.Product, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int32) error
	RestoreStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int32) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"category_id": product.CategoryID,
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"price_wp":    product.PriceWP,
			"stock":       product.Stock,
			"image_url":   product.ImageURL,
			"active":      product.Active,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListActive(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) List(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).Find(&products).Error
	if err != nil {
		return nil, err
	}

	return products, nil
}

// DecrementStock checks and debits in a single conditional UPDATE so
// stock can never go negative under concurrent checkouts.
func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int32) error {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

func (r *productRepoImpl) RestoreStock(ctx context.Context, tx *gorm.DB, productID uint, quantity int32) error {
	return tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}
