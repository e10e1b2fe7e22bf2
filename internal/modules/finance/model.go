package finance

import (
	"time"

	"github.com/google/uuid"
)

// PayableStatus is the lifecycle state of money the business owes.
type PayableStatus string

const (
	PayablePending   PayableStatus = "PENDING"
	PayablePaid      PayableStatus = "PAID"
	PayableCancelled PayableStatus = "CANCELLED"
)

// ReceivableStatus is the lifecycle state of money owed to the business.
type ReceivableStatus string

const (
	ReceivablePending   ReceivableStatus = "PENDING"
	ReceivableReceived  ReceivableStatus = "RECEIVED"
	ReceivableCancelled ReceivableStatus = "CANCELLED"
)

// Payable is one payment obligation, usually one installment of a purchase
// order's plan.
type Payable struct {
	ID            uuid.UUID     `json:"id"`
	Description   string        `json:"description"`
	SupplierID    *uuid.UUID    `json:"supplier_id,omitempty"`
	Value         float64       `json:"value"`
	DueDate       time.Time     `json:"due_date"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	Status        PayableStatus `json:"status"`
	OrderID       *uuid.UUID    `json:"order_id,omitempty"`
	InstallmentNo int           `json:"installment_no"`
	InstallmentOf int           `json:"installment_of"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Receivable is one collection obligation, usually one installment of a
// sale. CustomerName is denormalized the same way the sale stores it.
type Receivable struct {
	ID            uuid.UUID        `json:"id"`
	Description   string           `json:"description"`
	CustomerName  string           `json:"customer_name"`
	Value         float64          `json:"value"`
	DueDate       time.Time        `json:"due_date"`
	ReceiptDate   *time.Time       `json:"receipt_date,omitempty"`
	Status        ReceivableStatus `json:"status"`
	SaleID        *uuid.UUID       `json:"sale_id,omitempty"`
	InstallmentNo int              `json:"installment_no"`
	InstallmentOf int              `json:"installment_of"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CreatePayableRequest is the payload for a standalone payable (rent,
// utilities, anything outside a purchase order plan).
type CreatePayableRequest struct {
	Description string  `json:"description"`
	SupplierID  string  `json:"supplier_id,omitempty"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"due_date"` // YYYY-MM-DD
}

// CreateReceivableRequest is the payload for a standalone receivable.
type CreateReceivableRequest struct {
	Description  string  `json:"description"`
	CustomerName string  `json:"customer_name"`
	Value        float64 `json:"value"`
	DueDate      string  `json:"due_date"` // YYYY-MM-DD
}

// SettleRequest is the payload for marking a payable paid or a receivable
// received.
type SettleRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

// ListFilter narrows payable/receivable listings. Zero values mean no filter.
type ListFilter struct {
	Status  string
	DueFrom *time.Time
	DueTo   *time.Time
}
