package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL stock ledger repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) AdjustUnitStock(ctx context.Context, productID uuid.UUID, delta int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := ApplyUnitDelta(ctx, tx, productID, delta); err != nil {
		return err
	}
	if err := LogMovement(ctx, tx, &Movement{
		ProductID: productID,
		QtyDelta:  -delta,
		DocType:   DocManual,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) AdjustSizeStock(ctx context.Context, productID, sizeID uuid.UUID, delta int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := ApplySizeDelta(ctx, tx, productID, sizeID, delta); err != nil {
		return err
	}
	if err := LogMovement(ctx, tx, &Movement{
		ProductID: productID,
		SizeID:    &sizeID,
		QtyDelta:  -delta,
		DocType:   DocManual,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) TotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var mode string
	var stock int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock_mode, stock FROM products WHERE id = $1`, productID).Scan(&mode, &stock)
	if err != nil {
		return 0, fmt.Errorf("product %s: %w", productID, err)
	}
	if mode == "UNIT" {
		return stock, nil
	}
	var total int
	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM size_stocks WHERE product_id = $1`, productID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postgresRepo) ListSizeStock(ctx context.Context, productID uuid.UUID) ([]*SizeStock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ss.id, ss.product_id, ss.size_id, sz.label, ss.quantity, ss.created_at, ss.updated_at
		FROM size_stocks ss
		JOIN sizes sz ON sz.id = ss.size_id
		WHERE ss.product_id = $1
		ORDER BY sz.sort_order ASC, sz.label ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*SizeStock
	for rows.Next() {
		ss := &SizeStock{}
		if err := rows.Scan(&ss.ID, &ss.ProductID, &ss.SizeID, &ss.SizeLabel,
			&ss.Quantity, &ss.CreatedAt, &ss.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}

func (r *postgresRepo) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]*Movement, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, size_id, qty_delta, doc_type, doc_id, created_at
		FROM inventory_movements
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Movement
	for rows.Next() {
		m := &Movement{}
		var sizeID, docID sql.NullString
		if err := rows.Scan(&m.ID, &m.ProductID, &sizeID, &m.QtyDelta,
			&m.DocType, &docID, &m.CreatedAt); err != nil {
			return nil, err
		}
		if sizeID.Valid {
			uid, _ := uuid.Parse(sizeID.String)
			m.SizeID = &uid
		}
		if docID.Valid {
			uid, _ := uuid.Parse(docID.String)
			m.DocID = &uid
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
