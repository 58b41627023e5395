package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"winnerstore/internal/dto"
	"winnerstore/internal/model"
	"winnerstore/internal/repository"
	"winnerstore/internal/storage"

	"github.com/shopspring/decimal"
)

type CatalogService interface {
	ListProducts(ctx context.Context, includeInactive bool) ([]*model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, input *dto.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, input *dto.ProductInput) (*model.Product, error)
	// UploadProductImage stores the image and points the product at it.
	UploadProductImage(ctx context.Context, productID uint, ext string, file io.Reader) (string, error)

	ListCategories(ctx context.Context) ([]*model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)

	ListPaymentMethods(ctx context.Context, includeInactive bool) ([]*model.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, method *model.PaymentMethod) error
	UpdatePaymentMethod(ctx context.Context, method *model.PaymentMethod) error
	// UploadPaymentQR stores a QR image for a payment method.
	UploadPaymentQR(ctx context.Context, methodID uint, ext string, file io.Reader) (string, error)
}

type catalogServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	methodRepo   repository.PaymentMethodRepository
	store        storage.Storage
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	methodRepo repository.PaymentMethodRepository,
	store storage.Storage,
) CatalogService {
	return &catalogServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		methodRepo:   methodRepo,
		store:        store,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, includeInactive bool) ([]*model.Product, error) {
	if includeInactive {
		return s.productRepo.List(ctx)
	}
	return s.productRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, input *dto.ProductInput) (*model.Product, error) {
	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("invalid price %q", input.Price)
	}

	product := &model.Product{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		PriceWP:     input.PriceWP,
		Stock:       input.Stock,
		Active:      true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id uint, input *dto.ProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("invalid price %q", input.Price)
	}

	product.CategoryID = input.CategoryID
	product.Name = input.Name
	product.Description = input.Description
	product.Price = price
	product.PriceWP = input.PriceWP
	product.Stock = input.Stock
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *catalogServiceImpl) UploadProductImage(ctx context.Context, productID uint, ext string, file io.Reader) (string, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return "", err
	}

	url, err := s.store.Save(storage.BucketProductImages, ext, file)
	if err != nil {
		return "", fmt.Errorf("store product image: %w", err)
	}

	product.ImageURL = url
	if err := s.productRepo.Update(ctx, product); err != nil {
		return "", err
	}

	return url, nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	category := &model.Category{
		Name: name,
		Slug: slugify(name),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}

func (s *catalogServiceImpl) ListPaymentMethods(ctx context.Context, includeInactive bool) ([]*model.PaymentMethod, error) {
	if includeInactive {
		return s.methodRepo.List(ctx)
	}
	return s.methodRepo.ListActive(ctx)
}

func (s *catalogServiceImpl) CreatePaymentMethod(ctx context.Context, method *model.PaymentMethod) error {
	return s.methodRepo.Create(ctx, method)
}

func (s *catalogServiceImpl) UpdatePaymentMethod(ctx context.Context, method *model.PaymentMethod) error {
	return s.methodRepo.Update(ctx, method)
}

func (s *catalogServiceImpl) UploadPaymentQR(ctx context.Context, methodID uint, ext string, file io.Reader) (string, error) {
	methods, err := s.methodRepo.List(ctx)
	if err != nil {
		return "", err
	}

	var method *model.PaymentMethod
	for _, m := range methods {
		if m.ID == methodID {
			method = m
			break
		}
	}
	if method == nil {
		return "", fmt.Errorf("payment method %d not found", methodID)
	}

	url, err := s.store.Save(storage.BucketPaymentQR, ext, file)
	if err != nil {
		return "", fmt.Errorf("store payment qr: %w", err)
	}

	method.QRURL = url
	if err := s.methodRepo.Update(ctx, method); err != nil {
		return "", err
	}

	return url, nil
}
