package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PayableRepository defines payable data storage.
type PayableRepository interface {
	CreatePayables(ctx context.Context, ps []*Payable) error
	GetPayableByID(ctx context.Context, id string) (*Payable, error)
	ListPayables(ctx context.Context, f ListFilter) ([]*Payable, error)
	ListPayablesByOrder(ctx context.Context, orderID uuid.UUID) ([]*Payable, error)

	// MarkPayablePaid settles a PENDING payable; any other current status is
	// ErrAlreadySettled.
	MarkPayablePaid(ctx context.Context, id uuid.UUID, date time.Time) error
}

// ReceivableRepository defines receivable data storage.
type ReceivableRepository interface {
	CreateReceivables(ctx context.Context, rs []*Receivable) error
	GetReceivableByID(ctx context.Context, id string) (*Receivable, error)
	ListReceivables(ctx context.Context, f ListFilter) ([]*Receivable, error)
	ListReceivablesBySale(ctx context.Context, saleID uuid.UUID) ([]*Receivable, error)

	// MarkReceivableReceived settles a PENDING receivable; any other current
	// status is ErrAlreadySettled.
	MarkReceivableReceived(ctx context.Context, id uuid.UUID, date time.Time) error

	// CancelReceivablesBySale flips a sale's PENDING receivables to CANCELLED.
	CancelReceivablesBySale(ctx context.Context, saleID uuid.UUID) error
}
