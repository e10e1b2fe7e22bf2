package purchase

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/catalog"
	"github.com/rmachado/loja-erp/internal/modules/finance"
)

// ProductInfo is the slice of a product the order workflow needs.
type ProductInfo struct {
	ID        uuid.UUID
	Name      string
	StockMode catalog.StockMode
	UnitCost  float64
}

// Repository defines purchase order data access.
type Repository interface {
	// GetProductInfo fetches the product fields denormalized onto order lines.
	GetProductInfo(ctx context.Context, productID string) (*ProductInfo, error)

	// GetSupplierName fetches a supplier's display name.
	GetSupplierName(ctx context.Context, supplierID uuid.UUID) (string, error)

	// CreateOrder persists the order, its items, size breakdowns and payable
	// installments atomically in one transaction.
	CreateOrder(ctx context.Context, o *PurchaseOrder, payables []*finance.Payable) error

	// GetOrderByID retrieves a full order with items and size rows.
	GetOrderByID(ctx context.Context, id string) (*PurchaseOrder, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// ListOrders returns orders, optionally filtered by status and supplier.
	ListOrders(ctx context.Context, status, supplierID string) ([]*PurchaseOrder, error)

	// ReceiveOrder marks a PENDING order RECEIVED, stores the invoice number
	// and adds every line's quantities to stock, all in one transaction.
	// A non-PENDING order is ErrInvalidTransition and nothing changes.
	ReceiveOrder(ctx context.Context, o *PurchaseOrder, invoiceNumber string) error

	// CancelOrder marks a PENDING order CANCELLED and cancels its pending
	// payables in one transaction.
	CancelOrder(ctx context.Context, orderID uuid.UUID) error
}
