package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type categoryPostgresRepo struct{ db *sql.DB }

// NewCategoryPostgresRepository creates a new PostgreSQL category repository.
func NewCategoryPostgresRepository(db *sql.DB) CategoryRepository {
	return &categoryPostgresRepo{db: db}
}

func (r *categoryPostgresRepo) CreateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES ($1, $2)`, c.ID, c.Name)
	return err
}

func (r *categoryPostgresRepo) ListCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoryPostgresRepo) UpdateCategory(ctx context.Context, c *Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name=$1, updated_at=$2 WHERE id=$3`, c.Name, time.Now(), c.ID)
	return err
}

func (r *categoryPostgresRepo) DeleteCategory(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=$1`, uid)
	return err
}

type brandPostgresRepo struct{ db *sql.DB }

// NewBrandPostgresRepository creates a new PostgreSQL brand repository.
func NewBrandPostgresRepository(db *sql.DB) BrandRepository {
	return &brandPostgresRepo{db: db}
}

func (r *brandPostgresRepo) CreateBrand(ctx context.Context, b *Brand) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO brands (id, name) VALUES ($1, $2)`, b.ID, b.Name)
	return err
}

func (r *brandPostgresRepo) ListBrands(ctx context.Context) ([]*Brand, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM brands ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Brand
	for rows.Next() {
		b := &Brand{}
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *brandPostgresRepo) UpdateBrand(ctx context.Context, b *Brand) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE brands SET name=$1, updated_at=$2 WHERE id=$3`, b.Name, time.Now(), b.ID)
	return err
}

func (r *brandPostgresRepo) DeleteBrand(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM brands WHERE id=$1`, uid)
	return err
}

type sizePostgresRepo struct{ db *sql.DB }

// NewSizePostgresRepository creates a new PostgreSQL size repository.
func NewSizePostgresRepository(db *sql.DB) SizeRepository {
	return &sizePostgresRepo{db: db}
}

func (r *sizePostgresRepo) CreateSize(ctx context.Context, s *Size) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sizes (id, label, sort_order) VALUES ($1, $2, $3)`,
		s.ID, s.Label, s.SortOrder)
	return err
}

func (r *sizePostgresRepo) ListSizes(ctx context.Context) ([]*Size, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, sort_order, created_at, updated_at FROM sizes ORDER BY sort_order ASC, label ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Size
	for rows.Next() {
		s := &Size{}
		if err := rows.Scan(&s.ID, &s.Label, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sizePostgresRepo) DeleteSize(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM sizes WHERE id=$1`, uid)
	return err
}

type productPostgresRepo struct{ db *sql.DB }

// NewProductPostgresRepository creates a new PostgreSQL product repository.
func NewProductPostgresRepository(db *sql.DB) ProductRepository {
	return &productPostgresRepo{db: db}
}

func (r *productPostgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category_id, brand_id, unit_cost, sale_price, stock_mode, stock)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.CategoryID, p.BrandID, p.UnitCost, p.SalePrice, p.StockMode, p.Stock)
	return err
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	var categoryID, brandID sql.NullString
	err := scan(&p.ID, &p.Name, &categoryID, &brandID, &p.UnitCost, &p.SalePrice,
		&p.StockMode, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		uid, _ := uuid.Parse(categoryID.String)
		p.CategoryID = &uid
	}
	if brandID.Valid {
		uid, _ := uuid.Parse(brandID.String)
		p.BrandID = &uid
	}
	return p, nil
}

func (r *productPostgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, category_id, brand_id, unit_cost, sale_price, stock_mode, stock, created_at, updated_at
		FROM products WHERE id=$1`, uid)
	return scanProduct(row.Scan)
}

func (r *productPostgresRepo) ListProducts(ctx context.Context, categoryID string) ([]*Product, error) {
	query := `SELECT id, name, category_id, brand_id, unit_cost, sale_price, stock_mode, stock, created_at, updated_at
	          FROM products`
	args := []interface{}{}
	if categoryID != "" {
		query += ` WHERE category_id=$1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productPostgresRepo) UpdateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name=$1, category_id=$2, brand_id=$3, unit_cost=$4, sale_price=$5, updated_at=NOW()
		WHERE id=$6`,
		p.Name, p.CategoryID, p.BrandID, p.UnitCost, p.SalePrice, p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *productPostgresRepo) DeleteProduct(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, uid)
	return err
}
