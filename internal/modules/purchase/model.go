package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/catalog"
)

// OrderStatus represents the lifecycle state of a purchase order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusReceived  OrderStatus = "RECEIVED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// validTransitions defines the allowed status state machine. RECEIVED and
// CANCELLED are terminal.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusReceived, StatusCancelled},
	StatusReceived:  {},
	StatusCancelled: {},
}

// CanTransition returns true if the order may move from current to next.
func CanTransition(current, next OrderStatus) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// PurchaseOrder is an order placed with a supplier. The invoice number is
// empty until the order is received.
type PurchaseOrder struct {
	ID               uuid.UUID    `json:"id"`
	SupplierID       uuid.UUID    `json:"supplier_id"`
	SupplierName     string       `json:"supplier_name,omitempty"`
	OrderNumber      string       `json:"order_number"`
	Status           OrderStatus  `json:"status"`
	OrderDate        time.Time    `json:"order_date"`
	InvoiceNumber    string       `json:"invoice_number,omitempty"`
	Total            float64      `json:"total"`
	InstallmentCount int          `json:"installment_count"`
	Items            []*OrderItem `json:"items,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// OrderItem is a single line on a purchase order. ProductName and StockMode
// are denormalized at creation time so the order remains readable even if
// the product changes later.
type OrderItem struct {
	ID          uuid.UUID         `json:"id"`
	OrderID     uuid.UUID         `json:"order_id"`
	ProductID   uuid.UUID         `json:"product_id"`
	ProductName string            `json:"product_name"`
	StockMode   catalog.StockMode `json:"stock_mode"`
	Quantity    int               `json:"quantity"`
	UnitPrice   float64           `json:"unit_price"`
	LineTotal   float64           `json:"line_total"`
	Sizes       []*ItemSize       `json:"sizes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ItemSize is the per-size quantity breakdown of a SIZED order line.
type ItemSize struct {
	ID          uuid.UUID `json:"id"`
	OrderItemID uuid.UUID `json:"order_item_id"`
	SizeID      uuid.UUID `json:"size_id"`
	SizeLabel   string    `json:"size_label,omitempty"`
	Quantity    int       `json:"quantity"`
}

// SizeQuantity is a requested quantity for one size.
type SizeQuantity struct {
	SizeID   string `json:"size_id"`
	Quantity int    `json:"quantity"`
}

// OrderItemRequest describes one line of a new purchase order. Quantity is
// used for UNIT products; Sizes for SIZED products.
type OrderItemRequest struct {
	ProductID string         `json:"product_id"`
	Quantity  int            `json:"quantity,omitempty"`
	UnitPrice float64        `json:"unit_price"`
	Sizes     []SizeQuantity `json:"sizes,omitempty"`
}

// CreateOrderRequest is the payload for placing a purchase order.
type CreateOrderRequest struct {
	SupplierID   string             `json:"supplier_id"`
	OrderDate    string             `json:"order_date,omitempty"` // YYYY-MM-DD, defaults to today
	Installments int                `json:"installments"`
	Items        []OrderItemRequest `json:"items"`
}

// ReceiveRequest is the payload for receiving a purchase order.
type ReceiveRequest struct {
	InvoiceNumber string `json:"invoice_number"`
}
