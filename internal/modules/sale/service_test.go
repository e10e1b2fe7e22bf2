package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/catalog"
	"github.com/rmachado/loja-erp/internal/modules/finance"
	"github.com/rmachado/loja-erp/internal/modules/inventory"
)

// fakeRepo keeps sales, receivables and stock in memory. CreateSale enforces
// the non-negative stock rule the same way the conditional SQL updates do:
// any failing line aborts the whole sale.
type fakeRepo struct {
	products    map[uuid.UUID]*ProductInfo
	sales       map[uuid.UUID]*Sale
	receivables []*finance.Receivable
	unitStock   map[uuid.UUID]int
	sizeStock   map[uuid.UUID]map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:  make(map[uuid.UUID]*ProductInfo),
		sales:     make(map[uuid.UUID]*Sale),
		unitStock: make(map[uuid.UUID]int),
		sizeStock: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

func (f *fakeRepo) addUnitProduct(name string, price float64, stock int) uuid.UUID {
	id := uuid.New()
	f.products[id] = &ProductInfo{ID: id, Name: name, StockMode: catalog.StockModeUnit, SalePrice: price}
	f.unitStock[id] = stock
	return id
}

func (f *fakeRepo) addSizedProduct(name string, price float64, stock map[uuid.UUID]int) uuid.UUID {
	id := uuid.New()
	f.products[id] = &ProductInfo{ID: id, Name: name, StockMode: catalog.StockModeSized, SalePrice: price}
	f.sizeStock[id] = stock
	return id
}

func (f *fakeRepo) GetProductInfo(_ context.Context, productID string) (*ProductInfo, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}
	p, ok := f.products[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeRepo) consume(item *SaleItem) error {
	name := f.products[item.ProductID].Name
	if item.SizeID != nil {
		if f.sizeStock[item.ProductID][*item.SizeID] < item.Quantity {
			return fmt.Errorf("%w for product %q", inventory.ErrInsufficientStock, name)
		}
		f.sizeStock[item.ProductID][*item.SizeID] -= item.Quantity
		return nil
	}
	if f.unitStock[item.ProductID] < item.Quantity {
		return fmt.Errorf("%w for product %q", inventory.ErrInsufficientStock, name)
	}
	f.unitStock[item.ProductID] -= item.Quantity
	return nil
}

func (f *fakeRepo) restore(item *SaleItem) {
	if item.SizeID != nil {
		f.sizeStock[item.ProductID][*item.SizeID] += item.Quantity
		return
	}
	f.unitStock[item.ProductID] += item.Quantity
}

func (f *fakeRepo) CreateSale(_ context.Context, s *Sale, receivables []*finance.Receivable) error {
	var applied []*SaleItem
	for _, item := range s.Items {
		if err := f.consume(item); err != nil {
			for _, a := range applied {
				f.restore(a)
			}
			return err
		}
		applied = append(applied, item)
	}
	f.sales[s.ID] = s
	f.receivables = append(f.receivables, receivables...)
	return nil
}

func (f *fakeRepo) GetSaleByID(_ context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	s, ok := f.sales[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeRepo) GetSaleByNumber(_ context.Context, saleNumber string) (*Sale, error) {
	for _, s := range f.sales {
		if s.SaleNumber == saleNumber {
			return s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListSales(_ context.Context, status string) ([]*Sale, error) {
	var out []*Sale
	for _, s := range f.sales {
		if status != "" && string(s.Status) != status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeRepo) CompleteSale(_ context.Context, saleID uuid.UUID) error {
	s := f.sales[saleID]
	if s.Status != StatusPending {
		return ErrInvalidTransition
	}
	s.Status = StatusCompleted
	return nil
}

func (f *fakeRepo) CancelSale(_ context.Context, s *Sale) error {
	stored := f.sales[s.ID]
	if stored.Status == StatusCancelled {
		return ErrInvalidTransition
	}
	stored.Status = StatusCancelled
	for _, item := range stored.Items {
		f.restore(item)
	}
	f.cancelReceivables(s.ID)
	return nil
}

func (f *fakeRepo) DeleteSale(_ context.Context, s *Sale, restoreStock bool) error {
	if restoreStock {
		for _, item := range s.Items {
			f.restore(item)
		}
	}
	f.cancelReceivables(s.ID)
	delete(f.sales, s.ID)
	return nil
}

func (f *fakeRepo) cancelReceivables(saleID uuid.UUID) {
	for _, rc := range f.receivables {
		if rc.SaleID != nil && *rc.SaleID == saleID && rc.Status == finance.ReceivablePending {
			rc.Status = finance.ReceivableCancelled
		}
	}
}

func TestCreateSale(t *testing.T) {
	ctx := context.Background()

	t.Run("prices lines from the catalog", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		productID := repo.addUnitProduct("Plain shirt", 49.90, 20)

		s, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items:        []SaleItemRequest{{ProductID: productID.String(), Quantity: 3}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Status != StatusPending {
			t.Errorf("expected PENDING, got %s", s.Status)
		}
		if s.Total != 149.70 {
			t.Errorf("expected total 149.70, got %.2f", s.Total)
		}
		if repo.unitStock[productID] != 17 {
			t.Errorf("expected stock 17, got %d", repo.unitStock[productID])
		}
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		productID := repo.addUnitProduct("Plain shirt", 49.90, 2)

		_, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items:        []SaleItemRequest{{ProductID: productID.String(), Quantity: 3}},
		})
		if !errors.Is(err, inventory.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if got := err.Error(); !strings.Contains(got, "Plain shirt") {
			t.Errorf("error should name the product, got %q", got)
		}
		if repo.unitStock[productID] != 2 {
			t.Errorf("stock must be untouched, got %d", repo.unitStock[productID])
		}
	})

	t.Run("failing line rolls back earlier lines", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		okID := repo.addUnitProduct("Plain shirt", 49.90, 20)
		lowID := repo.addUnitProduct("Logo cap", 29.90, 1)

		_, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items: []SaleItemRequest{
				{ProductID: okID.String(), Quantity: 5},
				{ProductID: lowID.String(), Quantity: 2},
			},
		})
		if !errors.Is(err, inventory.ErrInsufficientStock) {
			t.Fatalf("expected ErrInsufficientStock, got %v", err)
		}
		if repo.unitStock[okID] != 20 {
			t.Errorf("first line must be rolled back, stock %d", repo.unitStock[okID])
		}
	})

	t.Run("sized product requires a size", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		sizeM := uuid.New()
		productID := repo.addSizedProduct("Logo shirt", 59.90, map[uuid.UUID]int{sizeM: 5})

		_, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items:        []SaleItemRequest{{ProductID: productID.String(), Quantity: 1}},
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unit product rejects a size", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		productID := repo.addUnitProduct("Plain shirt", 49.90, 5)

		_, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items: []SaleItemRequest{
				{ProductID: productID.String(), SizeID: uuid.NewString(), Quantity: 1},
			},
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("consumes per-size stock", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		sizeM := uuid.New()
		productID := repo.addSizedProduct("Logo shirt", 59.90, map[uuid.UUID]int{sizeM: 5})

		_, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items: []SaleItemRequest{
				{ProductID: productID.String(), SizeID: sizeM.String(), Quantity: 2},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.sizeStock[productID][sizeM] != 3 {
			t.Errorf("expected size stock 3, got %d", repo.sizeStock[productID][sizeM])
		}
	})

	t.Run("generates receivable installments", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		productID := repo.addUnitProduct("Plain shirt", 100.00, 20)

		s, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			SaleDate:     "2025-02-01",
			Installments: 2,
			Items:        []SaleItemRequest{{ProductID: productID.String(), Quantity: 3}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.receivables) != 2 {
			t.Fatalf("expected 2 receivables, got %d", len(repo.receivables))
		}
		var sum float64
		for _, rc := range repo.receivables {
			if rc.SaleID == nil || *rc.SaleID != s.ID {
				t.Error("receivable must reference the sale")
			}
			sum += rc.Value
		}
		if sum != 300.00 {
			t.Errorf("receivables must sum to the total, got %.2f", sum)
		}
	})

	t.Run("rejects empty customer name", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		_, err := svc.Create(ctx, CreateSaleRequest{
			Items: []SaleItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestUpdateSaleStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, installments int) (Service, *fakeRepo, *Sale, uuid.UUID) {
		t.Helper()
		repo := newFakeRepo()
		svc := NewService(repo)
		productID := repo.addUnitProduct("Plain shirt", 50.00, 10)
		s, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Installments: installments,
			Items:        []SaleItemRequest{{ProductID: productID.String(), Quantity: 4}},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return svc, repo, s, productID
	}

	t.Run("pending to completed", func(t *testing.T) {
		svc, repo, s, _ := setup(t, 0)
		got, err := svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "COMPLETED"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != StatusCompleted {
			t.Errorf("expected COMPLETED, got %s", got.Status)
		}
		if repo.sales[s.ID].Status != StatusCompleted {
			t.Errorf("stored sale: expected COMPLETED, got %s", repo.sales[s.ID].Status)
		}
	})

	t.Run("cancel restores exact stock and voids receivables", func(t *testing.T) {
		svc, repo, s, productID := setup(t, 2)
		if repo.unitStock[productID] != 6 {
			t.Fatalf("precondition: expected stock 6, got %d", repo.unitStock[productID])
		}

		if _, err := svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "CANCELLED"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.unitStock[productID] != 10 {
			t.Errorf("expected stock restored to 10, got %d", repo.unitStock[productID])
		}
		for i, rc := range repo.receivables {
			if rc.Status != finance.ReceivableCancelled {
				t.Errorf("receivable %d: expected CANCELLED, got %s", i, rc.Status)
			}
		}
	})

	t.Run("completed sale can still be cancelled", func(t *testing.T) {
		svc, repo, s, productID := setup(t, 0)
		if _, err := svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "COMPLETED"}); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if _, err := svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "CANCELLED"}); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		if repo.unitStock[productID] != 10 {
			t.Errorf("expected stock restored to 10, got %d", repo.unitStock[productID])
		}
	})

	t.Run("cancelled sale is terminal", func(t *testing.T) {
		svc, repo, s, productID := setup(t, 0)
		if _, err := svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "CANCELLED"}); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		_, err := svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "COMPLETED"})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
		_, err = svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "CANCELLED"})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("second cancel: expected ErrInvalidTransition, got %v", err)
		}
		if repo.unitStock[productID] != 10 {
			t.Errorf("stock must not be restored twice, got %d", repo.unitStock[productID])
		}
	})
}

func TestDeleteSale(t *testing.T) {
	ctx := context.Background()

	t.Run("restores stock for an active sale", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		productID := repo.addUnitProduct("Plain shirt", 50.00, 10)
		s, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items:        []SaleItemRequest{{ProductID: productID.String(), Quantity: 4}},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := svc.Delete(ctx, s.ID.String()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.unitStock[productID] != 10 {
			t.Errorf("expected stock restored to 10, got %d", repo.unitStock[productID])
		}
		if _, ok := repo.sales[s.ID]; ok {
			t.Error("sale must be gone")
		}
	})

	t.Run("cancelled sale is deleted without touching stock", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		productID := repo.addUnitProduct("Plain shirt", 50.00, 10)
		s, err := svc.Create(ctx, CreateSaleRequest{
			CustomerName: "Maria",
			Items:        []SaleItemRequest{{ProductID: productID.String(), Quantity: 4}},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := svc.UpdateStatus(ctx, s.ID.String(), UpdateStatusRequest{Status: "CANCELLED"}); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		if err := svc.Delete(ctx, s.ID.String()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.unitStock[productID] != 10 {
			t.Errorf("stock already restored by cancel, expected 10, got %d", repo.unitStock[productID])
		}
	})
}
