package purchase

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/catalog"
	"github.com/rmachado/loja-erp/internal/modules/finance"
)

// fakeRepo keeps orders, payables and product stock in memory. Stock is only
// touched by ReceiveOrder, mirroring the real repository.
type fakeRepo struct {
	products  map[uuid.UUID]*ProductInfo
	suppliers map[uuid.UUID]string
	orders    map[uuid.UUID]*PurchaseOrder
	payables  []*finance.Payable
	unitStock map[uuid.UUID]int
	sizeStock map[uuid.UUID]map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		products:  make(map[uuid.UUID]*ProductInfo),
		suppliers: make(map[uuid.UUID]string),
		orders:    make(map[uuid.UUID]*PurchaseOrder),
		unitStock: make(map[uuid.UUID]int),
		sizeStock: make(map[uuid.UUID]map[uuid.UUID]int),
	}
}

func (f *fakeRepo) addProduct(name string, mode catalog.StockMode) uuid.UUID {
	id := uuid.New()
	f.products[id] = &ProductInfo{ID: id, Name: name, StockMode: mode}
	return id
}

func (f *fakeRepo) addSupplier(name string) uuid.UUID {
	id := uuid.New()
	f.suppliers[id] = name
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

func (f *fakeRepo) GetSupplierName(_ context.Context, supplierID uuid.UUID) (string, error) {
	name, ok := f.suppliers[supplierID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return name, nil
}

func (f *fakeRepo) CreateOrder(_ context.Context, o *PurchaseOrder, payables []*finance.Payable) error {
	f.orders[o.ID] = o
	f.payables = append(f.payables, payables...)
	return nil
}

func (f *fakeRepo) GetOrderByID(_ context.Context, id string) (*PurchaseOrder, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, ok := f.orders[uid]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return o, nil
}

func (f *fakeRepo) GetOrderByNumber(_ context.Context, orderNumber string) (*PurchaseOrder, error) {
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListOrders(_ context.Context, status, supplierID string) ([]*PurchaseOrder, error) {
	var out []*PurchaseOrder
	for _, o := range f.orders {
		if status != "" && string(o.Status) != status {
			continue
		}
		if supplierID != "" && o.SupplierID.String() != supplierID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) ReceiveOrder(_ context.Context, o *PurchaseOrder, invoiceNumber string) error {
	stored := f.orders[o.ID]
	if stored.Status != StatusPending {
		return ErrInvalidTransition
	}
	stored.Status = StatusReceived
	stored.InvoiceNumber = invoiceNumber
	for _, item := range stored.Items {
		if len(item.Sizes) > 0 {
			for _, sz := range item.Sizes {
				if f.sizeStock[item.ProductID] == nil {
					f.sizeStock[item.ProductID] = make(map[uuid.UUID]int)
				}
				f.sizeStock[item.ProductID][sz.SizeID] += sz.Quantity
			}
		} else {
			f.unitStock[item.ProductID] += item.Quantity
		}
	}
	return nil
}

func (f *fakeRepo) CancelOrder(_ context.Context, orderID uuid.UUID) error {
	stored := f.orders[orderID]
	if stored.Status != StatusPending {
		return ErrInvalidTransition
	}
	stored.Status = StatusCancelled
	for _, p := range f.payables {
		if p.OrderID != nil && *p.OrderID == orderID && p.Status == finance.PayablePending {
			p.Status = finance.PayableCancelled
		}
	}
	return nil
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("computes totals and installment plan", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		supplierID := repo.addSupplier("Tecidos Sul")
		productID := repo.addProduct("Plain shirt", catalog.StockModeUnit)

		o, err := svc.Create(ctx, CreateOrderRequest{
			SupplierID:   supplierID.String(),
			OrderDate:    "2025-02-01",
			Installments: 3,
			Items: []OrderItemRequest{
				{ProductID: productID.String(), Quantity: 10, UnitPrice: 100.00},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Status != StatusPending {
			t.Errorf("expected PENDING, got %s", o.Status)
		}
		if o.Total != 1000.00 {
			t.Errorf("expected total 1000.00, got %.2f", o.Total)
		}
		if len(repo.payables) != 3 {
			t.Fatalf("expected 3 payables, got %d", len(repo.payables))
		}
		if repo.payables[0].Value != 333.34 {
			t.Errorf("first payable: expected 333.34, got %.2f", repo.payables[0].Value)
		}
		var sum float64
		for _, p := range repo.payables {
			if p.Status != finance.PayablePending {
				t.Errorf("expected PENDING payable, got %s", p.Status)
			}
			sum += p.Value
		}
		if sum < 999.99 || sum > 1000.01 {
			t.Errorf("payables must sum to the order total, got %.2f", sum)
		}
	})

	t.Run("sized product aggregates size quantities", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		supplierID := repo.addSupplier("Tecidos Sul")
		productID := repo.addProduct("Logo shirt", catalog.StockModeSized)
		sizeM, sizeG := uuid.New(), uuid.New()

		o, err := svc.Create(ctx, CreateOrderRequest{
			SupplierID: supplierID.String(),
			Items: []OrderItemRequest{
				{
					ProductID: productID.String(),
					UnitPrice: 50.00,
					Sizes: []SizeQuantity{
						{SizeID: sizeM.String(), Quantity: 4},
						{SizeID: sizeG.String(), Quantity: 6},
					},
				},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Items[0].Quantity != 10 {
			t.Errorf("expected aggregated quantity 10, got %d", o.Items[0].Quantity)
		}
		if o.Total != 500.00 {
			t.Errorf("expected total 500.00, got %.2f", o.Total)
		}
	})

	t.Run("rejects sized product without sizes", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		supplierID := repo.addSupplier("Tecidos Sul")
		productID := repo.addProduct("Logo shirt", catalog.StockModeSized)

		_, err := svc.Create(ctx, CreateOrderRequest{
			SupplierID: supplierID.String(),
			Items: []OrderItemRequest{
				{ProductID: productID.String(), Quantity: 10, UnitPrice: 50.00},
			},
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects missing supplier", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		_, err := svc.Create(ctx, CreateOrderRequest{
			Items: []OrderItemRequest{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 1}},
		})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects empty items", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		supplierID := repo.addSupplier("Tecidos Sul")
		_, err := svc.Create(ctx, CreateOrderRequest{SupplierID: supplierID.String()})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		supplierID := repo.addSupplier("Tecidos Sul")
		_, err := svc.Create(ctx, CreateOrderRequest{
			SupplierID: supplierID.String(),
			Items:      []OrderItemRequest{{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 1}},
		})
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("expected sql.ErrNoRows, got %v", err)
		}
	})
}

func TestReceiveOrder(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (Service, *fakeRepo, *PurchaseOrder, uuid.UUID) {
		t.Helper()
		repo := newFakeRepo()
		svc := NewService(repo)
		supplierID := repo.addSupplier("Tecidos Sul")
		productID := repo.addProduct("Plain shirt", catalog.StockModeUnit)
		o, err := svc.Create(ctx, CreateOrderRequest{
			SupplierID: supplierID.String(),
			Items: []OrderItemRequest{
				{ProductID: productID.String(), Quantity: 10, UnitPrice: 20.00},
			},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return svc, repo, o, productID
	}

	t.Run("adds ordered quantities to stock", func(t *testing.T) {
		svc, repo, o, productID := setup(t)
		got, err := svc.Receive(ctx, o.ID.String(), ReceiveRequest{InvoiceNumber: "NF-123"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != StatusReceived {
			t.Errorf("expected RECEIVED, got %s", got.Status)
		}
		if got.InvoiceNumber != "NF-123" {
			t.Errorf("expected invoice NF-123, got %q", got.InvoiceNumber)
		}
		if repo.unitStock[productID] != 10 {
			t.Errorf("expected stock 10, got %d", repo.unitStock[productID])
		}
	})

	t.Run("second receive does not double stock", func(t *testing.T) {
		svc, repo, o, productID := setup(t)
		if _, err := svc.Receive(ctx, o.ID.String(), ReceiveRequest{InvoiceNumber: "NF-123"}); err != nil {
			t.Fatalf("first receive: %v", err)
		}
		_, err := svc.Receive(ctx, o.ID.String(), ReceiveRequest{InvoiceNumber: "NF-124"})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
		if repo.unitStock[productID] != 10 {
			t.Errorf("stock must stay 10, got %d", repo.unitStock[productID])
		}
	})

	t.Run("requires an invoice number", func(t *testing.T) {
		svc, _, o, _ := setup(t)
		_, err := svc.Receive(ctx, o.ID.String(), ReceiveRequest{})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("cancelled order cannot be received", func(t *testing.T) {
		svc, repo, o, productID := setup(t)
		if err := svc.Cancel(ctx, o.ID.String()); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		_, err := svc.Receive(ctx, o.ID.String(), ReceiveRequest{InvoiceNumber: "NF-200"})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
		if repo.unitStock[productID] != 0 {
			t.Errorf("stock must stay 0, got %d", repo.unitStock[productID])
		}
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	supplierID := repo.addSupplier("Tecidos Sul")
	productID := repo.addProduct("Plain shirt", catalog.StockModeUnit)

	o, err := svc.Create(ctx, CreateOrderRequest{
		SupplierID:   supplierID.String(),
		Installments: 2,
		Items: []OrderItemRequest{
			{ProductID: productID.String(), Quantity: 5, UnitPrice: 40.00},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Cancel(ctx, o.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.orders[o.ID].Status != StatusCancelled {
		t.Errorf("expected CANCELLED, got %s", repo.orders[o.ID].Status)
	}
	for i, p := range repo.payables {
		if p.Status != finance.PayableCancelled {
			t.Errorf("payable %d: expected CANCELLED, got %s", i, p.Status)
		}
	}

	if err := svc.Cancel(ctx, o.ID.String()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second cancel: expected ErrInvalidTransition, got %v", err)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusReceived, true},
		{StatusPending, StatusCancelled, true},
		{StatusReceived, StatusCancelled, false},
		{StatusReceived, StatusPending, false},
		{StatusCancelled, StatusReceived, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
