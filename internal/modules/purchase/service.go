package purchase

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

// ErrInvalidTransition is returned for receive/cancel attempts on an order
// that already left PENDING.
var ErrInvalidTransition = errors.New("invalid status transition")

// Service defines the purchase order workflow.
type Service interface {
	// Create validates the items, computes the total, generates the payable
	// installment plan and persists everything atomically.
	Create(ctx context.Context, req CreateOrderRequest) (*PurchaseOrder, error)

	// Get retrieves a full order with its items by UUID.
	Get(ctx context.Context, id string) (*PurchaseOrder, error)

	// GetByNumber retrieves an order by its human-readable number.
	GetByNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// List returns orders, optionally filtered by status and supplier.
	List(ctx context.Context, status, supplierID string) ([]*PurchaseOrder, error)

	// Receive marks a PENDING order received, stores the invoice number and
	// adds the ordered quantities to stock. Returns the updated aggregate.
	Receive(ctx context.Context, id string, req ReceiveRequest) (*PurchaseOrder, error)

	// Cancel marks a PENDING order cancelled and voids its pending payables.
	// Nothing was received, so stock is untouched.
	Cancel(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

// NewService creates a new purchase service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateOrderRequest) (*PurchaseOrder, error) {
	if req.SupplierID == "" {
		return nil, fmt.Errorf("%w: supplier_id is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid supplier_id", ErrValidation)
	}
	supplierName, err := s.repo.GetSupplierName(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %s not found: %w", req.SupplierID, err)
	}

	orderDate := time.Now()
	if req.OrderDate != "" {
		orderDate, err = time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid order_date", ErrValidation)
		}
	}

	installments := req.Installments
	if installments <= 0 {
		installments = 1
	}

	var items []*OrderItem
	var total float64
	for _, ir := range req.Items {
		if ir.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: unit price must be positive for product %s", ErrValidation, ir.ProductID)
		}
		info, err := s.repo.GetProductInfo(ctx, ir.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", ir.ProductID, err)
		}

		item := &OrderItem{
			ID:          uuid.New(),
			ProductID:   info.ID,
			ProductName: info.Name,
			StockMode:   info.StockMode,
			UnitPrice:   ir.UnitPrice,
		}

		if info.StockMode == catalog.StockModeSized {
			if len(ir.Sizes) == 0 {
				return nil, fmt.Errorf("%w: product %q needs at least one size quantity", ErrValidation, info.Name)
			}
			qty := 0
			for _, sq := range ir.Sizes {
				if sq.Quantity <= 0 {
					return nil, fmt.Errorf("%w: size quantities must be positive for product %q", ErrValidation, info.Name)
				}
				sizeID, err := uuid.Parse(sq.SizeID)
				if err != nil {
					return nil, fmt.Errorf("%w: invalid size_id for product %q", ErrValidation, info.Name)
				}
				item.Sizes = append(item.Sizes, &ItemSize{
					ID:          uuid.New(),
					OrderItemID: item.ID,
					SizeID:      sizeID,
					Quantity:    sq.Quantity,
				})
				qty += sq.Quantity
			}
			item.Quantity = qty
		} else {
			if ir.Quantity <= 0 {
				return nil, fmt.Errorf("%w: quantity must be positive for product %q", ErrValidation, info.Name)
			}
			item.Quantity = ir.Quantity
		}

		item.LineTotal = round2(float64(item.Quantity) * item.UnitPrice)
		total += item.LineTotal
		items = append(items, item)
	}
	total = round2(total)

	plan, err := finance.GenerateInstallments(total, installments, orderDate)
	if err != nil {
		return nil, err
	}
	if err := finance.CheckTotals(total, plan); err != nil {
		return nil, err
	}

	o := &PurchaseOrder{
		ID:               uuid.New(),
		SupplierID:       supplierID,
		SupplierName:     supplierName,
		OrderNumber:      generateOrderNumber(),
		Status:           StatusPending,
		OrderDate:        orderDate,
		Total:            total,
		InstallmentCount: installments,
		Items:            items,
	}

	payables := make([]*finance.Payable, len(plan))
	for i, in := range plan {
		payables[i] = &finance.Payable{
			ID:            uuid.New(),
			Description:   fmt.Sprintf("%s - %s %d/%d", o.OrderNumber, supplierName, in.Number, installments),
			SupplierID:    &supplierID,
			Value:         in.Value,
			DueDate:       in.DueDate,
			Status:        finance.PayablePending,
			OrderID:       &o.ID,
			InstallmentNo: in.Number,
			InstallmentOf: installments,
		}
	}

	if err := s.repo.CreateOrder(ctx, o, payables); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return o, nil
}

func (s *service) Get(ctx context.Context, id string) (*PurchaseOrder, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error) {
	return s.repo.GetOrderByNumber(ctx, orderNumber)
}

func (s *service) List(ctx context.Context, status, supplierID string) ([]*PurchaseOrder, error) {
	return s.repo.ListOrders(ctx, strings.ToUpper(status), supplierID)
}

func (s *service) Receive(ctx context.Context, id string, req ReceiveRequest) (*PurchaseOrder, error) {
	if strings.TrimSpace(req.InvoiceNumber) == "" {
		return nil, fmt.Errorf("%w: invoice_number is required", ErrValidation)
	}
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order not found: %w", err)
	}
	if !CanTransition(o.Status, StatusReceived) {
		return nil, fmt.Errorf("%w: cannot receive order %s in status %s", ErrInvalidTransition, o.OrderNumber, o.Status)
	}

	if err := s.repo.ReceiveOrder(ctx, o, strings.TrimSpace(req.InvoiceNumber)); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id string) error {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return fmt.Errorf("order not found: %w", err)
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return fmt.Errorf("%w: cannot cancel order %s in status %s", ErrInvalidTransition, o.OrderNumber, o.Status)
	}
	return s.repo.CancelOrder(ctx, o.ID)
}

// generateOrderNumber creates a human-readable order number: PO-YYYYMMDD-XXXX
func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("PO-%s-%s", date, suffix)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
