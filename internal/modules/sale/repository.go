package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/catalog"
	"github.com/rmachado/loja-erp/internal/modules/finance"
)

// ProductInfo is the slice of a product the sale workflow needs.
type ProductInfo struct {
	ID        uuid.UUID
	Name      string
	StockMode catalog.StockMode
	SalePrice float64
}

// Repository defines sale data access.
type Repository interface {
	// GetProductInfo fetches the product fields a sale line needs.
	GetProductInfo(ctx context.Context, productID string) (*ProductInfo, error)

	// CreateSale persists the sale and its items, consumes stock and creates
	// the receivable installments atomically in one transaction. A line that
	// would drive stock negative aborts the whole sale.
	CreateSale(ctx context.Context, s *Sale, receivables []*finance.Receivable) error

	// GetSaleByID retrieves a full sale with its items.
	GetSaleByID(ctx context.Context, id string) (*Sale, error)

	// GetSaleByNumber retrieves a sale by its human-readable number.
	GetSaleByNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// ListSales returns sales, optionally filtered by status.
	ListSales(ctx context.Context, status string) ([]*Sale, error)

	// CompleteSale marks a PENDING sale COMPLETED. No side effects.
	CompleteSale(ctx context.Context, saleID uuid.UUID) error

	// CancelSale marks the sale CANCELLED, restores every line's stock and
	// cancels pending receivables in one transaction.
	CancelSale(ctx context.Context, s *Sale) error

	// DeleteSale removes the sale and its items. When restoreStock is true
	// (the sale was not already cancelled) the consumed quantities go back
	// to stock first. Pending receivables are cancelled either way.
	DeleteSale(ctx context.Context, s *Sale, restoreStock bool) error
}
