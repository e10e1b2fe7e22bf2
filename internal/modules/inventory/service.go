package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrValidation marks a rejected request payload.
var ErrValidation = errors.New("validation failed")

// Service defines stock ledger business logic.
type Service interface {
	// Adjust applies a manual stock correction. SizeID must be set for SIZED
	// products and empty for UNIT products.
	Adjust(ctx context.Context, productID string, req AdjustRequest) error

	// TotalStock returns the effective total stock of a product.
	TotalStock(ctx context.Context, productID string) (int, error)

	// ListSizeStock returns the per-size quantities of a product.
	ListSizeStock(ctx context.Context, productID string) ([]*SizeStock, error)

	// ListMovements returns the recent stock audit trail for a product.
	ListMovements(ctx context.Context, productID string, limit int) ([]*Movement, error)
}

type service struct {
	repo Repository
}

// NewService creates a new inventory service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Adjust(ctx context.Context, productID string, req AdjustRequest) error {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return fmt.Errorf("%w: invalid product id", ErrValidation)
	}
	if req.Delta == 0 {
		return fmt.Errorf("%w: delta must not be zero", ErrValidation)
	}
	if req.SizeID == "" {
		return s.repo.AdjustUnitStock(ctx, pid, req.Delta)
	}
	sid, err := uuid.Parse(req.SizeID)
	if err != nil {
		return fmt.Errorf("%w: invalid size id", ErrValidation)
	}
	return s.repo.AdjustSizeStock(ctx, pid, sid, req.Delta)
}

func (s *service) TotalStock(ctx context.Context, productID string) (int, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid product id", ErrValidation)
	}
	return s.repo.TotalStock(ctx, pid)
}

func (s *service) ListSizeStock(ctx context.Context, productID string) ([]*SizeStock, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrValidation)
	}
	return s.repo.ListSizeStock(ctx, pid)
}

func (s *service) ListMovements(ctx context.Context, productID string, limit int) ([]*Movement, error) {
	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product id", ErrValidation)
	}
	return s.repo.ListMovements(ctx, pid, limit)
}
