package catalog

import (
	"time"

	"github.com/google/uuid"
)

// StockMode determines how a product's inventory is tracked.
type StockMode string

const (
	// StockModeUnit tracks a single scalar quantity on the product row.
	StockModeUnit StockMode = "UNIT"
	// StockModeSized tracks one quantity per (product, size) row.
	StockModeSized StockMode = "SIZED"
)

// Category groups products for reporting and filtering.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Brand is a product manufacturer or label.
type Brand struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Size is a discrete variant dimension (e.g. P, M, G, 38, 40).
type Size struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is an item the business buys and sells.
// Stock is authoritative only in UNIT mode; SIZED products keep their
// quantities in per-size rows and Stock stays zero.
type Product struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	BrandID    *uuid.UUID `json:"brand_id,omitempty"`
	UnitCost   float64    `json:"unit_cost"`
	SalePrice  float64    `json:"sale_price"`
	StockMode  StockMode  `json:"stock_mode"`
	Stock      int        `json:"stock"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CreateProductRequest is the payload for registering a product.
type CreateProductRequest struct {
	Name       string  `json:"name"`
	CategoryID string  `json:"category_id,omitempty"`
	BrandID    string  `json:"brand_id,omitempty"`
	UnitCost   float64 `json:"unit_cost"`
	SalePrice  float64 `json:"sale_price"`
	StockMode  string  `json:"stock_mode"`
	Stock      int     `json:"stock,omitempty"` // initial stock, UNIT mode only
}

// UpdateProductRequest is the payload for editing a product. Stock is
// deliberately absent: stock changes go through the inventory module.
type UpdateProductRequest struct {
	Name       string  `json:"name"`
	CategoryID string  `json:"category_id,omitempty"`
	BrandID    string  `json:"brand_id,omitempty"`
	UnitCost   float64 `json:"unit_cost"`
	SalePrice  float64 `json:"sale_price"`
}
