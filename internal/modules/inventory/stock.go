package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInsufficientStock is returned when a consumption would drive stock
// below zero. The wrapping message names the product.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrUnknownSizeRow is returned when a size-level consumption targets a
// (product, size) pair that has no stock row.
var ErrUnknownSizeRow = errors.New("no stock row for size")

// Execer is the subset of *sql.DB and *sql.Tx the stock helpers need, so the
// same statements run standalone or inside a workflow transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ApplyUnitDelta adjusts a UNIT-mode product's scalar stock. Positive delta
// consumes, negative adds. The check and the write are a single conditional
// UPDATE, so stock can never go negative even under concurrent callers.
func ApplyUnitDelta(ctx context.Context, ex Execer, productID uuid.UUID, delta int) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock_mode = 'UNIT' AND stock - $1 >= 0`,
		delta, productID)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var name, mode string
	err = ex.QueryRowContext(ctx,
		`SELECT name, stock_mode FROM products WHERE id = $1`, productID).Scan(&name, &mode)
	if err != nil {
		return fmt.Errorf("product %s: %w", productID, err)
	}
	if mode != "UNIT" {
		return fmt.Errorf("product %q does not track unit stock", name)
	}
	return fmt.Errorf("%w for product %q", ErrInsufficientStock, name)
}

// ApplySizeDelta adjusts one (product, size) stock row. Positive delta
// consumes against an existing row; negative delta adds, creating the row on
// first receipt.
func ApplySizeDelta(ctx context.Context, ex Execer, productID, sizeID uuid.UUID, delta int) error {
	if delta <= 0 {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO size_stocks (id, product_id, size_id, quantity)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (product_id, size_id)
			DO UPDATE SET quantity = size_stocks.quantity + EXCLUDED.quantity, updated_at = NOW()`,
			uuid.New(), productID, sizeID, -delta)
		if err != nil {
			return fmt.Errorf("receive size stock: %w", err)
		}
		return nil
	}

	res, err := ex.ExecContext(ctx, `
		UPDATE size_stocks
		SET quantity = quantity - $1, updated_at = NOW()
		WHERE product_id = $2 AND size_id = $3 AND quantity - $1 >= 0`,
		delta, productID, sizeID)
	if err != nil {
		return fmt.Errorf("adjust size stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	err = ex.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM size_stocks WHERE product_id = $1 AND size_id = $2)`,
		productID, sizeID).Scan(&exists)
	if err != nil {
		return err
	}
	var name string
	if err := ex.QueryRowContext(ctx,
		`SELECT name FROM products WHERE id = $1`, productID).Scan(&name); err != nil {
		return fmt.Errorf("product %s: %w", productID, err)
	}
	if !exists {
		return fmt.Errorf("%w: product %q, size %s", ErrUnknownSizeRow, name, sizeID)
	}
	return fmt.Errorf("%w for product %q", ErrInsufficientStock, name)
}

// LogMovement appends one entry to the stock audit trail.
func LogMovement(ctx context.Context, ex Execer, m *Movement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO inventory_movements (id, product_id, size_id, qty_delta, doc_type, doc_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ProductID, m.SizeID, m.QtyDelta, m.DocType, m.DocID)
	if err != nil {
		return fmt.Errorf("log movement: %w", err)
	}
	return nil
}
