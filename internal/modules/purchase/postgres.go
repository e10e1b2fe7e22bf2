package purchase

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/finance"
	"github.com/rmachado/loja-erp/internal/modules/inventory"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL purchase order repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetProductInfo(ctx context.Context, productID string) (*ProductInfo, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}
	p := &ProductInfo{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, stock_mode, unit_cost FROM products WHERE id=$1`, uid).Scan(
		&p.ID, &p.Name, &p.StockMode, &p.UnitCost)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetSupplierName(ctx context.Context, supplierID uuid.UUID) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		`SELECT name FROM suppliers WHERE id=$1`, supplierID).Scan(&name)
	return name, err
}

// CreateOrder inserts the order, items, size rows and payable installments
// inside a single transaction.
func (r *postgresRepo) CreateOrder(ctx context.Context, o *PurchaseOrder, payables []*finance.Payable) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchase_orders
		  (id, supplier_id, order_number, status, order_date, invoice_number, total, installment_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.SupplierID, o.OrderNumber, o.Status, o.OrderDate, o.InvoiceNumber,
		o.Total, o.InstallmentCount)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO purchase_order_items
			  (id, order_id, product_id, product_name, stock_mode, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			item.ID, o.ID, item.ProductID, item.ProductName, item.StockMode,
			item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		for _, sz := range item.Sizes {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO purchase_order_item_sizes (id, order_item_id, size_id, quantity)
				VALUES ($1,$2,$3,$4)`,
				sz.ID, item.ID, sz.SizeID, sz.Quantity)
			if err != nil {
				return fmt.Errorf("insert item size: %w", err)
			}
		}
	}

	for _, p := range payables {
		if err := finance.InsertPayable(ctx, tx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReceiveOrder flips the order to RECEIVED and applies every line to stock.
// The status update runs first with a PENDING guard so a concurrent second
// receive rolls back before touching inventory.
func (r *postgresRepo) ReceiveOrder(ctx context.Context, o *PurchaseOrder, invoiceNumber string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE purchase_orders
		SET status=$1, invoice_number=$2, updated_at=NOW()
		WHERE id=$3 AND status=$4`,
		StatusReceived, invoiceNumber, o.ID, StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: order %s is not PENDING", ErrInvalidTransition, o.OrderNumber)
	}

	docID := o.ID
	for _, item := range o.Items {
		if len(item.Sizes) == 0 {
			// Receipt adds stock: negative delta in ledger convention.
			if err := inventory.ApplyUnitDelta(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			if err := inventory.LogMovement(ctx, tx, &inventory.Movement{
				ProductID: item.ProductID,
				QtyDelta:  item.Quantity,
				DocType:   inventory.DocPurchase,
				DocID:     &docID,
			}); err != nil {
				return err
			}
			continue
		}
		for _, sz := range item.Sizes {
			if err := inventory.ApplySizeDelta(ctx, tx, item.ProductID, sz.SizeID, -sz.Quantity); err != nil {
				return err
			}
			sizeID := sz.SizeID
			if err := inventory.LogMovement(ctx, tx, &inventory.Movement{
				ProductID: item.ProductID,
				SizeID:    &sizeID,
				QtyDelta:  sz.Quantity,
				DocType:   inventory.DocPurchase,
				DocID:     &docID,
			}); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE purchase_orders SET status=$1, updated_at=NOW()
		WHERE id=$2 AND status=$3`,
		StatusCancelled, orderID, StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: order %s is not PENDING", ErrInvalidTransition, orderID)
	}

	if err := finance.CancelPendingPayablesByOrder(ctx, tx, orderID); err != nil {
		return err
	}

	return tx.Commit()
}

const orderColumns = `o.id, o.supplier_id, s.name, o.order_number, o.status, o.order_date,
       o.invoice_number, o.total, o.installment_count, o.created_at, o.updated_at`

func (r *postgresRepo) scanOrder(row *sql.Row) (*PurchaseOrder, error) {
	o := &PurchaseOrder{}
	err := row.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.OrderNumber, &o.Status,
		&o.OrderDate, &o.InvoiceNumber, &o.Total, &o.InstallmentCount,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*PurchaseOrder, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM purchase_orders o JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.id=$1`, uid))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error) {
	o, err := r.scanOrder(r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM purchase_orders o JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.order_number=$1`, orderNumber))
	if err != nil {
		return nil, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *postgresRepo) ListOrders(ctx context.Context, status, supplierID string) ([]*PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + `
	          FROM purchase_orders o JOIN suppliers s ON s.id = o.supplier_id
	          WHERE 1=1`
	args := []interface{}{}
	n := 1
	if status != "" {
		query += fmt.Sprintf(` AND o.status=$%d`, n)
		args = append(args, status)
		n++
	}
	if supplierID != "" {
		query += fmt.Sprintf(` AND o.supplier_id=$%d`, n)
		args = append(args, supplierID)
		n++
	}
	query += ` ORDER BY o.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*PurchaseOrder
	for rows.Next() {
		o := &PurchaseOrder{}
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.SupplierName, &o.OrderNumber,
			&o.Status, &o.OrderDate, &o.InvoiceNumber, &o.Total, &o.InstallmentCount,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, orderID uuid.UUID) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, stock_mode, quantity, unit_price, line_total, created_at
		FROM purchase_order_items WHERE order_id=$1 ORDER BY created_at ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.StockMode, &item.Quantity, &item.UnitPrice, &item.LineTotal,
			&item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range items {
		sizes, err := r.listItemSizes(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		item.Sizes = sizes
	}
	return items, nil
}

func (r *postgresRepo) listItemSizes(ctx context.Context, itemID uuid.UUID) ([]*ItemSize, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pos.id, pos.order_item_id, pos.size_id, sz.label, pos.quantity
		FROM purchase_order_item_sizes pos
		JOIN sizes sz ON sz.id = pos.size_id
		WHERE pos.order_item_id=$1
		ORDER BY sz.sort_order ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sizes []*ItemSize
	for rows.Next() {
		sz := &ItemSize{}
		if err := rows.Scan(&sz.ID, &sz.OrderItemID, &sz.SizeID, &sz.SizeLabel, &sz.Quantity); err != nil {
			return nil, err
		}
		sizes = append(sizes, sz)
	}
	return sizes, rows.Err()
}
