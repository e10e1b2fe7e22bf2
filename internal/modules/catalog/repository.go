package catalog

import "context"

// CategoryRepository defines category data storage.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *Category) error
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// BrandRepository defines brand data storage.
type BrandRepository interface {
	CreateBrand(ctx context.Context, b *Brand) error
	ListBrands(ctx context.Context) ([]*Brand, error)
	UpdateBrand(ctx context.Context, b *Brand) error
	DeleteBrand(ctx context.Context, id string) error
}

// SizeRepository defines size dimension data storage.
type SizeRepository interface {
	CreateSize(ctx context.Context, s *Size) error
	ListSizes(ctx context.Context) ([]*Size, error)
	DeleteSize(ctx context.Context, id string) error
}

// ProductRepository defines product data storage.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, categoryID string) ([]*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
}
