package finance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakePayableRepo struct {
	payables map[uuid.UUID]*Payable
}

func newFakePayableRepo() *fakePayableRepo {
	return &fakePayableRepo{payables: make(map[uuid.UUID]*Payable)}
}

func (f *fakePayableRepo) CreatePayables(_ context.Context, ps []*Payable) error {
	for _, p := range ps {
		f.payables[p.ID] = p
	}
	return nil
}

func (f *fakePayableRepo) GetPayableByID(_ context.Context, id string) (*Payable, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p, ok := f.payables[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakePayableRepo) ListPayables(_ context.Context, filter ListFilter) ([]*Payable, error) {
	var out []*Payable
	for _, p := range f.payables {
		if filter.Status != "" && string(p.Status) != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePayableRepo) ListPayablesByOrder(_ context.Context, orderID uuid.UUID) ([]*Payable, error) {
	var out []*Payable
	for _, p := range f.payables {
		if p.OrderID != nil && *p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayableRepo) MarkPayablePaid(_ context.Context, id uuid.UUID, date time.Time) error {
	p, ok := f.payables[id]
	if !ok {
		return sql.ErrNoRows
	}
	if p.Status != PayablePending {
		return fmt.Errorf("%w: payable is %s", ErrAlreadySettled, p.Status)
	}
	p.Status = PayablePaid
	p.PaymentDate = &date
	return nil
}

type fakeReceivableRepo struct {
	receivables map[uuid.UUID]*Receivable
}

func newFakeReceivableRepo() *fakeReceivableRepo {
	return &fakeReceivableRepo{receivables: make(map[uuid.UUID]*Receivable)}
}

func (f *fakeReceivableRepo) CreateReceivables(_ context.Context, rs []*Receivable) error {
	for _, r := range rs {
		f.receivables[r.ID] = r
	}
	return nil
}

func (f *fakeReceivableRepo) GetReceivableByID(_ context.Context, id string) (*Receivable, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	r, ok := f.receivables[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (f *fakeReceivableRepo) ListReceivables(_ context.Context, filter ListFilter) ([]*Receivable, error) {
	var out []*Receivable
	for _, r := range f.receivables {
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReceivableRepo) ListReceivablesBySale(_ context.Context, saleID uuid.UUID) ([]*Receivable, error) {
	var out []*Receivable
	for _, r := range f.receivables {
		if r.SaleID != nil && *r.SaleID == saleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReceivableRepo) MarkReceivableReceived(_ context.Context, id uuid.UUID, date time.Time) error {
	r, ok := f.receivables[id]
	if !ok {
		return sql.ErrNoRows
	}
	if r.Status != ReceivablePending {
		return fmt.Errorf("%w: receivable is %s", ErrAlreadySettled, r.Status)
	}
	r.Status = ReceivableReceived
	r.ReceiptDate = &date
	return nil
}

func (f *fakeReceivableRepo) CancelReceivablesBySale(_ context.Context, saleID uuid.UUID) error {
	for _, r := range f.receivables {
		if r.SaleID != nil && *r.SaleID == saleID && r.Status == ReceivablePending {
			r.Status = ReceivableCancelled
		}
	}
	return nil
}

func newTestService() (Service, *fakePayableRepo, *fakeReceivableRepo) {
	pr := newFakePayableRepo()
	rr := newFakeReceivableRepo()
	return NewService(pr, rr), pr, rr
}

func TestCreatePayable(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending single installment", func(t *testing.T) {
		svc, repo, _ := newTestService()
		p, err := svc.CreatePayable(ctx, CreatePayableRequest{
			Description: "Rent march",
			Value:       1200.00,
			DueDate:     "2025-03-31",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != PayablePending {
			t.Errorf("expected PENDING, got %s", p.Status)
		}
		if p.InstallmentNo != 1 || p.InstallmentOf != 1 {
			t.Errorf("expected installment 1/1, got %d/%d", p.InstallmentNo, p.InstallmentOf)
		}
		if _, ok := repo.payables[p.ID]; !ok {
			t.Error("payable was not persisted")
		}
	})

	t.Run("rejects empty description", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.CreatePayable(ctx, CreatePayableRequest{Value: 10, DueDate: "2025-03-31"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.CreatePayable(ctx, CreatePayableRequest{
			Description: "x", Value: 0, DueDate: "2025-03-31",
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects malformed due date", func(t *testing.T) {
		svc, _, _ := newTestService()
		_, err := svc.CreatePayable(ctx, CreatePayableRequest{
			Description: "x", Value: 10, DueDate: "31/03/2025",
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestMarkPayablePaid(t *testing.T) {
	ctx := context.Background()

	t.Run("settles a pending payable once", func(t *testing.T) {
		svc, repo, _ := newTestService()
		p, err := svc.CreatePayable(ctx, CreatePayableRequest{
			Description: "Supplier invoice", Value: 500, DueDate: "2025-04-10",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := svc.MarkPayablePaid(ctx, p.ID.String(), SettleRequest{Date: "2025-04-09"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.payables[p.ID].Status != PayablePaid {
			t.Errorf("expected PAID, got %s", repo.payables[p.ID].Status)
		}
		if repo.payables[p.ID].PaymentDate == nil {
			t.Error("payment date was not recorded")
		}

		err = svc.MarkPayablePaid(ctx, p.ID.String(), SettleRequest{})
		if !errors.Is(err, ErrAlreadySettled) {
			t.Errorf("second settle: expected ErrAlreadySettled, got %v", err)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _, _ := newTestService()
		err := svc.MarkPayablePaid(ctx, uuid.NewString(), SettleRequest{})
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("expected sql.ErrNoRows, got %v", err)
		}
	})
}

func TestMarkReceivableReceived(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newTestService()

	rc, err := svc.CreateReceivable(ctx, CreateReceivableRequest{
		Description:  "Counter sale",
		CustomerName: "Maria",
		Value:        80.00,
		DueDate:      "2025-05-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.MarkReceivableReceived(ctx, rc.ID.String(), SettleRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.receivables[rc.ID].Status != ReceivableReceived {
		t.Errorf("expected RECEIVED, got %s", repo.receivables[rc.ID].Status)
	}

	err = svc.MarkReceivableReceived(ctx, rc.ID.String(), SettleRequest{})
	if !errors.Is(err, ErrAlreadySettled) {
		t.Errorf("second settle: expected ErrAlreadySettled, got %v", err)
	}
}

func TestCancelReceivablesForSale(t *testing.T) {
	ctx := context.Background()
	svc, _, repo := newTestService()
	saleID := uuid.New()

	pending := &Receivable{ID: uuid.New(), Status: ReceivablePending, SaleID: &saleID}
	received := &Receivable{ID: uuid.New(), Status: ReceivableReceived, SaleID: &saleID}
	repo.receivables[pending.ID] = pending
	repo.receivables[received.ID] = received

	if err := svc.CancelReceivablesForSale(ctx, saleID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.Status != ReceivableCancelled {
		t.Errorf("pending installment: expected CANCELLED, got %s", pending.Status)
	}
	if received.Status != ReceivableReceived {
		t.Errorf("settled installment must stay RECEIVED, got %s", received.Status)
	}
}
