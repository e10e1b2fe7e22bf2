package inventory

import (
	"time"

	"github.com/google/uuid"
)

// DocType identifies the document that caused a stock movement.
type DocType string

const (
	DocPurchase DocType = "PURCHASE"
	DocSale     DocType = "SALE"
	DocManual   DocType = "MANUAL"
)

// SizeStock is the quantity of a SIZED product held in one size.
type SizeStock struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	SizeID    uuid.UUID `json:"size_id"`
	SizeLabel string    `json:"size_label,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Movement is one append-only entry in the stock audit trail. QtyDelta is the
// signed change applied to stock: positive for receipts and restorations,
// negative for consumption.
type Movement struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	SizeID    *uuid.UUID `json:"size_id,omitempty"`
	QtyDelta  int        `json:"qty_delta"`
	DocType   DocType    `json:"doc_type"`
	DocID     *uuid.UUID `json:"doc_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// AdjustRequest is the payload for a manual stock correction. Delta follows
// the ledger convention: positive consumes stock, negative adds to it.
type AdjustRequest struct {
	Delta  int    `json:"delta"`
	SizeID string `json:"size_id,omitempty"` // required for SIZED products
}
