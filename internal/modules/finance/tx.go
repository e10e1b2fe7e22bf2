package finance

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Execer is the subset of *sql.DB and *sql.Tx the ledger helpers need, so
// the purchase and sale workflows can write financial rows inside their own
// transactions.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// InsertPayable writes one payable row.
func InsertPayable(ctx context.Context, ex Execer, p *Payable) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PayablePending
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO payables
		  (id, description, supplier_id, value, due_date, payment_date, status, order_id, installment_no, installment_of)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.Description, p.SupplierID, p.Value, p.DueDate, p.PaymentDate,
		p.Status, p.OrderID, p.InstallmentNo, p.InstallmentOf)
	if err != nil {
		return fmt.Errorf("insert payable: %w", err)
	}
	return nil
}

// InsertReceivable writes one receivable row.
func InsertReceivable(ctx context.Context, ex Execer, r *Receivable) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = ReceivablePending
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO receivables
		  (id, description, customer_name, value, due_date, receipt_date, status, sale_id, installment_no, installment_of)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		r.ID, r.Description, r.CustomerName, r.Value, r.DueDate, r.ReceiptDate,
		r.Status, r.SaleID, r.InstallmentNo, r.InstallmentOf)
	if err != nil {
		return fmt.Errorf("insert receivable: %w", err)
	}
	return nil
}

// CancelPendingPayablesByOrder flips an order's PENDING payables to
// CANCELLED. Settled installments are left untouched.
func CancelPendingPayablesByOrder(ctx context.Context, ex Execer, orderID uuid.UUID) error {
	_, err := ex.ExecContext(ctx, `
		UPDATE payables SET status=$1, updated_at=NOW()
		WHERE order_id=$2 AND status=$3`,
		PayableCancelled, orderID, PayablePending)
	if err != nil {
		return fmt.Errorf("cancel payables: %w", err)
	}
	return nil
}

// CancelPendingReceivablesBySale flips a sale's PENDING receivables to
// CANCELLED. Settled installments are left untouched.
func CancelPendingReceivablesBySale(ctx context.Context, ex Execer, saleID uuid.UUID) error {
	_, err := ex.ExecContext(ctx, `
		UPDATE receivables SET status=$1, updated_at=NOW()
		WHERE sale_id=$2 AND status=$3`,
		ReceivableCancelled, saleID, ReceivablePending)
	if err != nil {
		return fmt.Errorf("cancel receivables: %w", err)
	}
	return nil
}
