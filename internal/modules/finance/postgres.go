package finance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type payablePostgresRepo struct{ db *sql.DB }

// NewPayablePostgresRepository creates a new PostgreSQL payable repository.
func NewPayablePostgresRepository(db *sql.DB) PayableRepository {
	return &payablePostgresRepo{db: db}
}

func (r *payablePostgresRepo) CreatePayables(ctx context.Context, ps []*Payable) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, p := range ps {
		if err := InsertPayable(ctx, tx, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanPayable(scan func(...interface{}) error) (*Payable, error) {
	p := &Payable{}
	var supplierID, orderID sql.NullString
	var paymentDate sql.NullTime
	err := scan(&p.ID, &p.Description, &supplierID, &p.Value, &p.DueDate,
		&paymentDate, &p.Status, &orderID, &p.InstallmentNo, &p.InstallmentOf,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if supplierID.Valid {
		uid, _ := uuid.Parse(supplierID.String)
		p.SupplierID = &uid
	}
	if orderID.Valid {
		uid, _ := uuid.Parse(orderID.String)
		p.OrderID = &uid
	}
	if paymentDate.Valid {
		p.PaymentDate = &paymentDate.Time
	}
	return p, nil
}

const payableColumns = `id, description, supplier_id, value, due_date, payment_date, status, order_id, installment_no, installment_of, created_at, updated_at`

func (r *payablePostgresRepo) GetPayableByID(ctx context.Context, id string) (*Payable, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+payableColumns+` FROM payables WHERE id=$1`, uid)
	return scanPayable(row.Scan)
}

func (r *payablePostgresRepo) ListPayables(ctx context.Context, f ListFilter) ([]*Payable, error) {
	query := `SELECT ` + payableColumns + ` FROM payables WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Status != "" {
		query += fmt.Sprintf(` AND status=$%d`, n)
		args = append(args, f.Status)
		n++
	}
	if f.DueFrom != nil {
		query += fmt.Sprintf(` AND due_date >= $%d`, n)
		args = append(args, *f.DueFrom)
		n++
	}
	if f.DueTo != nil {
		query += fmt.Sprintf(` AND due_date <= $%d`, n)
		args = append(args, *f.DueTo)
		n++
	}
	query += ` ORDER BY due_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Payable
	for rows.Next() {
		p, err := scanPayable(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *payablePostgresRepo) ListPayablesByOrder(ctx context.Context, orderID uuid.UUID) ([]*Payable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+payableColumns+` FROM payables WHERE order_id=$1 ORDER BY installment_no ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Payable
	for rows.Next() {
		p, err := scanPayable(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *payablePostgresRepo) MarkPayablePaid(ctx context.Context, id uuid.UUID, date time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payables SET status=$1, payment_date=$2, updated_at=NOW()
		WHERE id=$3 AND status=$4`,
		PayablePaid, date, id, PayablePending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM payables WHERE id=$1`, id).Scan(&status)
	if err != nil {
		return fmt.Errorf("payable %s: %w", id, err)
	}
	return fmt.Errorf("%w: payable %s is %s", ErrAlreadySettled, id, status)
}

type receivablePostgresRepo struct{ db *sql.DB }

// NewReceivablePostgresRepository creates a new PostgreSQL receivable repository.
func NewReceivablePostgresRepository(db *sql.DB) ReceivableRepository {
	return &receivablePostgresRepo{db: db}
}

func (r *receivablePostgresRepo) CreateReceivables(ctx context.Context, rs []*Receivable) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, rc := range rs {
		if err := InsertReceivable(ctx, tx, rc); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func scanReceivable(scan func(...interface{}) error) (*Receivable, error) {
	rc := &Receivable{}
	var saleID sql.NullString
	var receiptDate sql.NullTime
	err := scan(&rc.ID, &rc.Description, &rc.CustomerName, &rc.Value, &rc.DueDate,
		&receiptDate, &rc.Status, &saleID, &rc.InstallmentNo, &rc.InstallmentOf,
		&rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if saleID.Valid {
		uid, _ := uuid.Parse(saleID.String)
		rc.SaleID = &uid
	}
	if receiptDate.Valid {
		rc.ReceiptDate = &receiptDate.Time
	}
	return rc, nil
}

const receivableColumns = `id, description, customer_name, value, due_date, receipt_date, status, sale_id, installment_no, installment_of, created_at, updated_at`

func (r *receivablePostgresRepo) GetReceivableByID(ctx context.Context, id string) (*Receivable, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+receivableColumns+` FROM receivables WHERE id=$1`, uid)
	return scanReceivable(row.Scan)
}

func (r *receivablePostgresRepo) ListReceivables(ctx context.Context, f ListFilter) ([]*Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM receivables WHERE 1=1`
	args := []interface{}{}
	n := 1
	if f.Status != "" {
		query += fmt.Sprintf(` AND status=$%d`, n)
		args = append(args, f.Status)
		n++
	}
	if f.DueFrom != nil {
		query += fmt.Sprintf(` AND due_date >= $%d`, n)
		args = append(args, *f.DueFrom)
		n++
	}
	if f.DueTo != nil {
		query += fmt.Sprintf(` AND due_date <= $%d`, n)
		args = append(args, *f.DueTo)
		n++
	}
	query += ` ORDER BY due_date ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Receivable
	for rows.Next() {
		rc, err := scanReceivable(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *receivablePostgresRepo) ListReceivablesBySale(ctx context.Context, saleID uuid.UUID) ([]*Receivable, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+receivableColumns+` FROM receivables WHERE sale_id=$1 ORDER BY installment_no ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Receivable
	for rows.Next() {
		rc, err := scanReceivable(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *receivablePostgresRepo) MarkReceivableReceived(ctx context.Context, id uuid.UUID, date time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE receivables SET status=$1, receipt_date=$2, updated_at=NOW()
		WHERE id=$3 AND status=$4`,
		ReceivableReceived, date, id, ReceivablePending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM receivables WHERE id=$1`, id).Scan(&status)
	if err != nil {
		return fmt.Errorf("receivable %s: %w", id, err)
	}
	return fmt.Errorf("%w: receivable %s is %s", ErrAlreadySettled, id, status)
}

func (r *receivablePostgresRepo) CancelReceivablesBySale(ctx context.Context, saleID uuid.UUID) error {
	return CancelPendingReceivablesBySale(ctx, r.db, saleID)
}
