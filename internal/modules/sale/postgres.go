package sale

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rmachado/loja-erp/internal/modules/finance"
	"github.com/rmachado/loja-erp/internal/modules/inventory"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL sale repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) GetProductInfo(ctx context.Context, productID string) (*ProductInfo, error) {
	uid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}
	p := &ProductInfo{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, stock_mode, sale_price FROM products WHERE id=$1`, uid).Scan(
		&p.ID, &p.Name, &p.StockMode, &p.SalePrice)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateSale inserts the sale, items and receivables and consumes stock in
// one transaction. The conditional stock updates are the authoritative
// guard: any insufficient line rolls everything back.
func (r *postgresRepo) CreateSale(ctx context.Context, s *Sale, receivables []*finance.Receivable) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, sale_number, customer_name, sale_date, status, total, installment_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.SaleNumber, s.CustomerName, s.SaleDate, s.Status, s.Total, s.InstallmentCount)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}

	docID := s.ID
	for _, item := range s.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, product_name, size_id, quantity, unit_price, line_total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			item.ID, s.ID, item.ProductID, item.ProductName, item.SizeID,
			item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}

		if item.SizeID != nil {
			if err := inventory.ApplySizeDelta(ctx, tx, item.ProductID, *item.SizeID, item.Quantity); err != nil {
				return err
			}
		} else {
			if err := inventory.ApplyUnitDelta(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := inventory.LogMovement(ctx, tx, &inventory.Movement{
			ProductID: item.ProductID,
			SizeID:    item.SizeID,
			QtyDelta:  -item.Quantity,
			DocType:   inventory.DocSale,
			DocID:     &docID,
		}); err != nil {
			return err
		}
	}

	for _, rc := range receivables {
		if err := finance.InsertReceivable(ctx, tx, rc); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *postgresRepo) CompleteSale(ctx context.Context, saleID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sales SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`,
		StatusCompleted, saleID, StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: sale %s is not PENDING", ErrInvalidTransition, saleID)
	}
	return nil
}

// CancelSale restores stock, cancels pending receivables and flips the
// status in one transaction. The guarded status update runs first so a
// concurrent second cancel rolls back before restoring stock twice.
func (r *postgresRepo) CancelSale(ctx context.Context, s *Sale) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE sales SET status=$1, updated_at=NOW() WHERE id=$2 AND status<>$1`,
		StatusCancelled, s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: sale %s is already cancelled", ErrInvalidTransition, s.SaleNumber)
	}

	if err := r.restoreStock(ctx, tx, s); err != nil {
		return err
	}
	if err := finance.CancelPendingReceivablesBySale(ctx, tx, s.ID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepo) DeleteSale(ctx context.Context, s *Sale, restoreStock bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if restoreStock {
		if err := r.restoreStock(ctx, tx, s); err != nil {
			return err
		}
	}
	if err := finance.CancelPendingReceivablesBySale(ctx, tx, s.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id=$1`, s.ID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id=$1`, s.ID); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	return tx.Commit()
}

// restoreStock puts every line's quantity back, mirroring the consumption
// applied at creation.
func (r *postgresRepo) restoreStock(ctx context.Context, tx *sql.Tx, s *Sale) error {
	docID := s.ID
	for _, item := range s.Items {
		if item.SizeID != nil {
			if err := inventory.ApplySizeDelta(ctx, tx, item.ProductID, *item.SizeID, -item.Quantity); err != nil {
				return err
			}
		} else {
			if err := inventory.ApplyUnitDelta(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		if err := inventory.LogMovement(ctx, tx, &inventory.Movement{
			ProductID: item.ProductID,
			SizeID:    item.SizeID,
			QtyDelta:  item.Quantity,
			DocType:   inventory.DocSale,
			DocID:     &docID,
		}); err != nil {
			return err
		}
	}
	return nil
}

const saleColumns = `id, sale_number, customer_name, sale_date, status, total, installment_count, created_at, updated_at`

func (r *postgresRepo) scanSale(row *sql.Row) (*Sale, error) {
	s := &Sale{}
	err := row.Scan(&s.ID, &s.SaleNumber, &s.CustomerName, &s.SaleDate, &s.Status,
		&s.Total, &s.InstallmentCount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) GetSaleByID(ctx context.Context, id string) (*Sale, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	s, err := r.scanSale(r.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id=$1`, uid))
	if err != nil {
		return nil, err
	}
	s.Items, err = r.listItems(ctx, s.ID)
	return s, err
}

func (r *postgresRepo) GetSaleByNumber(ctx context.Context, saleNumber string) (*Sale, error) {
	s, err := r.scanSale(r.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE sale_number=$1`, saleNumber))
	if err != nil {
		return nil, err
	}
	s.Items, err = r.listItems(ctx, s.ID)
	return s, err
}

func (r *postgresRepo) ListSales(ctx context.Context, status string) ([]*Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var sales []*Sale
	for rows.Next() {
		s := &Sale{}
		if err := rows.Scan(&s.ID, &s.SaleNumber, &s.CustomerName, &s.SaleDate,
			&s.Status, &s.Total, &s.InstallmentCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *postgresRepo) listItems(ctx context.Context, saleID uuid.UUID) ([]*SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT si.id, si.sale_id, si.product_id, si.product_name, si.size_id,
		       COALESCE(sz.label, ''), si.quantity, si.unit_price, si.line_total, si.created_at
		FROM sale_items si
		LEFT JOIN sizes sz ON sz.id = si.size_id
		WHERE si.sale_id=$1 ORDER BY si.created_at ASC`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*SaleItem
	for rows.Next() {
		item := &SaleItem{}
		var sizeID sql.NullString
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName,
			&sizeID, &item.SizeLabel, &item.Quantity, &item.UnitPrice, &item.LineTotal,
			&item.CreatedAt); err != nil {
			return nil, err
		}
		if sizeID.Valid {
			uid, _ := uuid.Parse(sizeID.String)
			item.SizeID = &uid
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
