package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrValidation marks a rejected request payload.
var ErrValidation = errors.New("validation failed")

// ErrAlreadySettled is returned when settling a payable or receivable that
// is not PENDING.
var ErrAlreadySettled = errors.New("already settled")

// Service defines financial ledger business logic.
type Service interface {
	// Payables
	CreatePayable(ctx context.Context, req CreatePayableRequest) (*Payable, error)
	GetPayable(ctx context.Context, id string) (*Payable, error)
	ListPayables(ctx context.Context, status, dueFrom, dueTo string) ([]*Payable, error)
	ListOrderPayables(ctx context.Context, orderID string) ([]*Payable, error)
	MarkPayablePaid(ctx context.Context, id string, req SettleRequest) error

	// Receivables
	CreateReceivable(ctx context.Context, req CreateReceivableRequest) (*Receivable, error)
	GetReceivable(ctx context.Context, id string) (*Receivable, error)
	ListReceivables(ctx context.Context, status, dueFrom, dueTo string) ([]*Receivable, error)
	ListSaleReceivables(ctx context.Context, saleID string) ([]*Receivable, error)
	MarkReceivableReceived(ctx context.Context, id string, req SettleRequest) error
	CancelReceivablesForSale(ctx context.Context, saleID string) error
}

type service struct {
	payableRepo    PayableRepository
	receivableRepo ReceivableRepository
}

// NewService creates a new finance service.
func NewService(payableRepo PayableRepository, receivableRepo ReceivableRepository) Service {
	return &service{payableRepo: payableRepo, receivableRepo: receivableRepo}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func (s *service) CreatePayable(ctx context.Context, req CreatePayableRequest) (*Payable, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if req.Value <= 0 {
		return nil, fmt.Errorf("%w: value must be positive", ErrValidation)
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due_date", ErrValidation)
	}

	p := &Payable{
		ID:            uuid.New(),
		Description:   strings.TrimSpace(req.Description),
		Value:         req.Value,
		DueDate:       due,
		Status:        PayablePending,
		InstallmentNo: 1,
		InstallmentOf: 1,
	}
	if req.SupplierID != "" {
		uid, err := uuid.Parse(req.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid supplier_id", ErrValidation)
		}
		p.SupplierID = &uid
	}
	if err := s.payableRepo.CreatePayables(ctx, []*Payable{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetPayable(ctx context.Context, id string) (*Payable, error) {
	return s.payableRepo.GetPayableByID(ctx, id)
}

func buildFilter(status, dueFrom, dueTo string) (ListFilter, error) {
	f := ListFilter{Status: strings.ToUpper(status)}
	if dueFrom != "" {
		t, err := parseDate(dueFrom)
		if err != nil {
			return f, fmt.Errorf("%w: invalid due_from", ErrValidation)
		}
		f.DueFrom = &t
	}
	if dueTo != "" {
		t, err := parseDate(dueTo)
		if err != nil {
			return f, fmt.Errorf("%w: invalid due_to", ErrValidation)
		}
		f.DueTo = &t
	}
	return f, nil
}

func (s *service) ListPayables(ctx context.Context, status, dueFrom, dueTo string) ([]*Payable, error) {
	f, err := buildFilter(status, dueFrom, dueTo)
	if err != nil {
		return nil, err
	}
	return s.payableRepo.ListPayables(ctx, f)
}

func (s *service) ListOrderPayables(ctx context.Context, orderID string) ([]*Payable, error) {
	uid, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order id", ErrValidation)
	}
	return s.payableRepo.ListPayablesByOrder(ctx, uid)
}

func settleDate(req SettleRequest) (time.Time, error) {
	if req.Date == "" {
		return time.Now(), nil
	}
	return parseDate(req.Date)
}

func (s *service) MarkPayablePaid(ctx context.Context, id string, req SettleRequest) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid payable id", ErrValidation)
	}
	date, err := settleDate(req)
	if err != nil {
		return fmt.Errorf("%w: invalid date", ErrValidation)
	}
	return s.payableRepo.MarkPayablePaid(ctx, uid, date)
}

func (s *service) CreateReceivable(ctx context.Context, req CreateReceivableRequest) (*Receivable, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrValidation)
	}
	if req.Value <= 0 {
		return nil, fmt.Errorf("%w: value must be positive", ErrValidation)
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid due_date", ErrValidation)
	}

	rc := &Receivable{
		ID:            uuid.New(),
		Description:   strings.TrimSpace(req.Description),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Value:         req.Value,
		DueDate:       due,
		Status:        ReceivablePending,
		InstallmentNo: 1,
		InstallmentOf: 1,
	}
	if err := s.receivableRepo.CreateReceivables(ctx, []*Receivable{rc}); err != nil {
		return nil, err
	}
	return rc, nil
}

func (s *service) GetReceivable(ctx context.Context, id string) (*Receivable, error) {
	return s.receivableRepo.GetReceivableByID(ctx, id)
}

func (s *service) ListReceivables(ctx context.Context, status, dueFrom, dueTo string) ([]*Receivable, error) {
	f, err := buildFilter(status, dueFrom, dueTo)
	if err != nil {
		return nil, err
	}
	return s.receivableRepo.ListReceivables(ctx, f)
}

func (s *service) ListSaleReceivables(ctx context.Context, saleID string) ([]*Receivable, error) {
	uid, err := uuid.Parse(saleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sale id", ErrValidation)
	}
	return s.receivableRepo.ListReceivablesBySale(ctx, uid)
}

func (s *service) MarkReceivableReceived(ctx context.Context, id string, req SettleRequest) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid receivable id", ErrValidation)
	}
	date, err := settleDate(req)
	if err != nil {
		return fmt.Errorf("%w: invalid date", ErrValidation)
	}
	return s.receivableRepo.MarkReceivableReceived(ctx, uid, date)
}

func (s *service) CancelReceivablesForSale(ctx context.Context, saleID string) error {
	uid, err := uuid.Parse(saleID)
	if err != nil {
		return fmt.Errorf("%w: invalid sale id", ErrValidation)
	}
	return s.receivableRepo.CancelReceivablesBySale(ctx, uid)
}
