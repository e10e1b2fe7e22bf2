package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrValidation marks a rejected request payload.
var ErrValidation = errors.New("validation failed")

// Service defines catalog business logic for products, categories, brands and sizes.
type Service interface {
	// Categories
	CreateCategory(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	RenameCategory(ctx context.Context, id, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Brands
	CreateBrand(ctx context.Context, name string) (*Brand, error)
	ListBrands(ctx context.Context) ([]*Brand, error)
	RenameBrand(ctx context.Context, id, name string) (*Brand, error)
	DeleteBrand(ctx context.Context, id string) error

	// Sizes
	CreateSize(ctx context.Context, label string, sortOrder int) (*Size, error)
	ListSizes(ctx context.Context) ([]*Size, error)
	DeleteSize(ctx context.Context, id string) error

	// Products
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, categoryID string) ([]*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type service struct {
	categoryRepo CategoryRepository
	brandRepo    BrandRepository
	sizeRepo     SizeRepository
	productRepo  ProductRepository
}

// NewService creates a new catalog service.
func NewService(categoryRepo CategoryRepository, brandRepo BrandRepository, sizeRepo SizeRepository, productRepo ProductRepository) Service {
	return &service{
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		sizeRepo:     sizeRepo,
		productRepo:  productRepo,
	}
}

func (s *service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c := &Category{ID: uuid.New(), Name: strings.TrimSpace(name)}
	if err := s.categoryRepo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

func (s *service) RenameCategory(ctx context.Context, id, name string) (*Category, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid category id", ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	c := &Category{ID: uid, Name: strings.TrimSpace(name)}
	if err := s.categoryRepo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	return s.categoryRepo.DeleteCategory(ctx, id)
}

func (s *service) CreateBrand(ctx context.Context, name string) (*Brand, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: brand name is required", ErrValidation)
	}
	b := &Brand{ID: uuid.New(), Name: strings.TrimSpace(name)}
	if err := s.brandRepo.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) ListBrands(ctx context.Context) ([]*Brand, error) {
	return s.brandRepo.ListBrands(ctx)
}

func (s *service) RenameBrand(ctx context.Context, id, name string) (*Brand, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid brand id", ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: brand name is required", ErrValidation)
	}
	b := &Brand{ID: uid, Name: strings.TrimSpace(name)}
	if err := s.brandRepo.UpdateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBrand(ctx context.Context, id string) error {
	return s.brandRepo.DeleteBrand(ctx, id)
}

func (s *service) CreateSize(ctx context.Context, label string, sortOrder int) (*Size, error) {
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: size label is required", ErrValidation)
	}
	sz := &Size{ID: uuid.New(), Label: strings.TrimSpace(label), SortOrder: sortOrder}
	if err := s.sizeRepo.CreateSize(ctx, sz); err != nil {
		return nil, err
	}
	return sz, nil
}

func (s *service) ListSizes(ctx context.Context) ([]*Size, error) {
	return s.sizeRepo.ListSizes(ctx)
}

func (s *service) DeleteSize(ctx context.Context, id string) error {
	return s.sizeRepo.DeleteSize(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if req.UnitCost < 0 || req.SalePrice < 0 {
		return nil, fmt.Errorf("%w: prices must not be negative", ErrValidation)
	}

	mode := StockMode(strings.ToUpper(req.StockMode))
	if mode == "" {
		mode = StockModeUnit
	}
	if mode != StockModeUnit && mode != StockModeSized {
		return nil, fmt.Errorf("%w: stock_mode must be UNIT or SIZED", ErrValidation)
	}
	if mode == StockModeSized && req.Stock != 0 {
		return nil, fmt.Errorf("%w: SIZED products track stock per size, not on the product", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}

	p := &Product{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		UnitCost:  req.UnitCost,
		SalePrice: req.SalePrice,
		StockMode: mode,
		Stock:     req.Stock,
	}
	if req.CategoryID != "" {
		uid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid category_id", ErrValidation)
		}
		p.CategoryID = &uid
	}
	if req.BrandID != "" {
		uid, err := uuid.Parse(req.BrandID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid brand_id", ErrValidation)
		}
		p.BrandID = &uid
	}

	if err := s.productRepo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.productRepo.GetProductByID(ctx, id)
}

func (s *service) ListProducts(ctx context.Context, categoryID string) ([]*Product, error) {
	return s.productRepo.ListProducts(ctx, categoryID)
}

func (s *service) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	p, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if req.UnitCost < 0 || req.SalePrice < 0 {
		return nil, fmt.Errorf("%w: prices must not be negative", ErrValidation)
	}

	p.Name = strings.TrimSpace(req.Name)
	p.UnitCost = req.UnitCost
	p.SalePrice = req.SalePrice
	p.CategoryID = nil
	p.BrandID = nil
	if req.CategoryID != "" {
		uid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid category_id", ErrValidation)
		}
		p.CategoryID = &uid
	}
	if req.BrandID != "" {
		uid, err := uuid.Parse(req.BrandID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid brand_id", ErrValidation)
		}
		p.BrandID = &uid
	}

	if err := s.productRepo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	return s.productRepo.DeleteProduct(ctx, id)
}
