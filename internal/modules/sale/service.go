package sale

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/catalog"
	"github.com/rmachado/loja-erp/internal/modules/finance"
)

// ErrValidation marks a rejected request payload.
var ErrValidation = errors.New("validation failed")

// ErrInvalidTransition is returned for status changes the state machine
// forbids.
var ErrInvalidTransition = errors.New("invalid status transition")

// Service defines the sale workflow.
type Service interface {
	// Create validates the cart, prices it from the catalog, consumes stock
	// and generates receivables, all atomically. Stock is consumed at
	// creation time, before any completion step.
	Create(ctx context.Context, req CreateSaleRequest) (*Sale, error)

	// Get retrieves a full sale with its items by UUID.
	Get(ctx context.Context, id string) (*Sale, error)

	// GetByNumber retrieves a sale by its human-readable number.
	GetByNumber(ctx context.Context, saleNumber string) (*Sale, error)

	// List returns sales, optionally filtered by status.
	List(ctx context.Context, status string) ([]*Sale, error)

	// UpdateStatus advances a sale to a new lifecycle status. Moving to
	// CANCELLED restores stock and cancels linked receivables.
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Sale, error)

	// Delete removes a sale entirely, restoring stock unless the sale was
	// already cancelled, and cancelling linked receivables.
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new sale service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: sale must contain at least one item", ErrValidation)
	}

	status := StatusPending
	if req.Status != "" {
		status = SaleStatus(strings.ToUpper(req.Status))
		if status != StatusPending && status != StatusCompleted {
			return nil, fmt.Errorf("%w: status must be PENDING or COMPLETED", ErrValidation)
		}
	}

	saleDate := time.Now()
	if req.SaleDate != "" {
		var err error
		saleDate, err = time.Parse("2006-01-02", req.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid sale_date", ErrValidation)
		}
	}

	var items []*SaleItem
	var total float64
	for _, ir := range req.Items {
		if ir.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", ErrValidation, ir.ProductID)
		}
		info, err := s.repo.GetProductInfo(ctx, ir.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", ir.ProductID, err)
		}

		item := &SaleItem{
			ID:          uuid.New(),
			ProductID:   info.ID,
			ProductName: info.Name,
			Quantity:    ir.Quantity,
			UnitPrice:   info.SalePrice,
			LineTotal:   round2(float64(ir.Quantity) * info.SalePrice),
		}

		if info.StockMode == catalog.StockModeSized {
			if ir.SizeID == "" {
				return nil, fmt.Errorf("%w: product %q requires a size", ErrValidation, info.Name)
			}
			sizeID, err := uuid.Parse(ir.SizeID)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid size_id for product %q", ErrValidation, info.Name)
			}
			item.SizeID = &sizeID
		} else if ir.SizeID != "" {
			return nil, fmt.Errorf("%w: product %q does not have sizes", ErrValidation, info.Name)
		}

		total += item.LineTotal
		items = append(items, item)
	}
	total = round2(total)

	sl := &Sale{
		ID:               uuid.New(),
		SaleNumber:       generateSaleNumber(),
		CustomerName:     strings.TrimSpace(req.CustomerName),
		SaleDate:         saleDate,
		Status:           status,
		Total:            total,
		InstallmentCount: req.Installments,
		Items:            items,
	}

	var receivables []*finance.Receivable
	if req.Installments > 0 {
		plan, err := finance.GenerateInstallments(total, req.Installments, saleDate)
		if err != nil {
			return nil, err
		}
		if err := finance.CheckTotals(total, plan); err != nil {
			return nil, err
		}
		for _, in := range plan {
			receivables = append(receivables, &finance.Receivable{
				ID:            uuid.New(),
				Description:   fmt.Sprintf("%s - %s %d/%d", sl.SaleNumber, sl.CustomerName, in.Number, req.Installments),
				CustomerName:  sl.CustomerName,
				Value:         in.Value,
				DueDate:       in.DueDate,
				Status:        finance.ReceivablePending,
				SaleID:        &sl.ID,
				InstallmentNo: in.Number,
				InstallmentOf: req.Installments,
			})
		}
	}

	if err := s.repo.CreateSale(ctx, sl, receivables); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *service) Get(ctx context.Context, id string) (*Sale, error) {
	return s.repo.GetSaleByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, saleNumber string) (*Sale, error) {
	return s.repo.GetSaleByNumber(ctx, saleNumber)
}

func (s *service) List(ctx context.Context, status string) ([]*Sale, error) {
	return s.repo.ListSales(ctx, strings.ToUpper(status))
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*Sale, error) {
	sl, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sale not found: %w", err)
	}

	newStatus := SaleStatus(strings.ToUpper(req.Status))
	if !CanTransition(sl.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move sale %s from %s to %s",
			ErrInvalidTransition, sl.SaleNumber, sl.Status, newStatus)
	}

	switch newStatus {
	case StatusCompleted:
		if err := s.repo.CompleteSale(ctx, sl.ID); err != nil {
			return nil, err
		}
	case StatusCancelled:
		if err := s.repo.CancelSale(ctx, sl); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	sl.Status = newStatus
	return sl, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	sl, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		return fmt.Errorf("sale not found: %w", err)
	}
	restoreStock := sl.Status != StatusCancelled
	return s.repo.DeleteSale(ctx, sl, restoreStock)
}

// generateSaleNumber creates a human-readable sale number: SAL-YYYYMMDD-XXXX
func generateSaleNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("SAL-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
