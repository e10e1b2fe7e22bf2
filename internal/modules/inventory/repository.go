package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines stock ledger data access.
type Repository interface {
	// AdjustUnitStock applies a manual scalar adjustment and logs the movement
	// in one transaction. Positive delta consumes stock.
	AdjustUnitStock(ctx context.Context, productID uuid.UUID, delta int) error

	// AdjustSizeStock applies a manual per-size adjustment and logs the
	// movement in one transaction.
	AdjustSizeStock(ctx context.Context, productID, sizeID uuid.UUID, delta int) error

	// TotalStock returns the effective stock of a product: the scalar field
	// for UNIT mode, the sum over size rows for SIZED mode.
	TotalStock(ctx context.Context, productID uuid.UUID) (int, error)

	// ListSizeStock returns the per-size breakdown of a SIZED product.
	ListSizeStock(ctx context.Context, productID uuid.UUID) ([]*SizeStock, error)

	// ListMovements returns the most recent movements for a product.
	ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]*Movement, error)
}
