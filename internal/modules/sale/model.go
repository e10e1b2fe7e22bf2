package sale

import (
	"time"

	"github.com/google/uuid"
)

// SaleStatus represents the lifecycle state of a sale.
type SaleStatus string

const (
	StatusPending   SaleStatus = "PENDING"
	StatusCompleted SaleStatus = "COMPLETED"
	StatusCancelled SaleStatus = "CANCELLED"
)

// validTransitions defines the allowed status state machine. A completed
// sale can still be cancelled; a cancelled sale is terminal.
var validTransitions = map[SaleStatus][]SaleStatus{
	StatusPending:   {StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition returns true if the sale may move from current to next.
func CanTransition(current, next SaleStatus) bool {
	for _, s := range validTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Sale is a customer sale. The customer is a free-form name, not a
// reference: walk-in sales have no registered customer record.
type Sale struct {
	ID               uuid.UUID   `json:"id"`
	SaleNumber       string      `json:"sale_number"`
	CustomerName     string      `json:"customer_name"`
	SaleDate         time.Time   `json:"sale_date"`
	Status           SaleStatus  `json:"status"`
	Total            float64     `json:"total"`
	InstallmentCount int         `json:"installment_count"`
	Items            []*SaleItem `json:"items,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// SaleItem is a single line on a sale. Stock adjustments key on ProductID;
// ProductName is denormalized for display only.
type SaleItem struct {
	ID          uuid.UUID  `json:"id"`
	SaleID      uuid.UUID  `json:"sale_id"`
	ProductID   uuid.UUID  `json:"product_id"`
	ProductName string     `json:"product_name"`
	SizeID      *uuid.UUID `json:"size_id,omitempty"`
	SizeLabel   string     `json:"size_label,omitempty"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	LineTotal   float64    `json:"line_total"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SaleItemRequest describes one line of a new sale. SizeID is required for
// SIZED products and must be empty for UNIT products.
type SaleItemRequest struct {
	ProductID string `json:"product_id"`
	SizeID    string `json:"size_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// CreateSaleRequest is the payload for registering a sale. Prices come from
// the catalog at sale time. Installments > 0 generates a receivable plan.
type CreateSaleRequest struct {
	CustomerName string            `json:"customer_name"`
	SaleDate     string            `json:"sale_date,omitempty"` // YYYY-MM-DD, defaults to today
	Status       string            `json:"status,omitempty"`    // PENDING (default) or COMPLETED
	Installments int               `json:"installments,omitempty"`
	Items        []SaleItemRequest `json:"items"`
}

// UpdateStatusRequest is the payload for advancing a sale's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
