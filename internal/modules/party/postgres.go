package party

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type customerPostgresRepo struct{ db *sql.DB }

// NewCustomerPostgresRepository creates a new PostgreSQL customer repository.
func NewCustomerPostgresRepository(db *sql.DB) CustomerRepository {
	return &customerPostgresRepo{db: db}
}

func (r *customerPostgresRepo) CreateCustomer(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, tax_id, email, phone, address, city)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.Name, c.TaxID, c.Email, c.Phone, c.Address, c.City)
	return err
}

func (r *customerPostgresRepo) GetCustomerByID(ctx context.Context, id string) (*Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	c := &Customer{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, tax_id, email, phone, address, city, created_at, updated_at
		FROM customers WHERE id=$1`, uid).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.Address, &c.City,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerPostgresRepo) ListCustomers(ctx context.Context) ([]*Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, tax_id, email, phone, address, city, created_at, updated_at
		FROM customers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Customer
	for rows.Next() {
		c := &Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone,
			&c.Address, &c.City, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *customerPostgresRepo) UpdateCustomer(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name=$1, tax_id=$2, email=$3, phone=$4, address=$5, city=$6, updated_at=NOW()
		WHERE id=$7`,
		c.Name, c.TaxID, c.Email, c.Phone, c.Address, c.City, c.ID)
	return err
}

func (r *customerPostgresRepo) DeleteCustomer(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, uid)
	return err
}

type supplierPostgresRepo struct{ db *sql.DB }

// NewSupplierPostgresRepository creates a new PostgreSQL supplier repository.
func NewSupplierPostgresRepository(db *sql.DB) SupplierRepository {
	return &supplierPostgresRepo{db: db}
}

func (r *supplierPostgresRepo) CreateSupplier(ctx context.Context, s *Supplier) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, tax_id, email, phone, address, city)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		s.ID, s.Name, s.TaxID, s.Email, s.Phone, s.Address, s.City)
	return err
}

func (r *supplierPostgresRepo) GetSupplierByID(ctx context.Context, id string) (*Supplier, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	s := &Supplier{}
	err = r.db.QueryRowContext(ctx, `
		SELECT id, name, tax_id, email, phone, address, city, created_at, updated_at
		FROM suppliers WHERE id=$1`, uid).Scan(
		&s.ID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.Address, &s.City,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *supplierPostgresRepo) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, tax_id, email, phone, address, city, created_at, updated_at
		FROM suppliers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Supplier
	for rows.Next() {
		s := &Supplier{}
		if err := rows.Scan(&s.ID, &s.Name, &s.TaxID, &s.Email, &s.Phone,
			&s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *supplierPostgresRepo) UpdateSupplier(ctx context.Context, s *Supplier) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name=$1, tax_id=$2, email=$3, phone=$4, address=$5, city=$6, updated_at=NOW()
		WHERE id=$7`,
		s.Name, s.TaxID, s.Email, s.Phone, s.Address, s.City, s.ID)
	return err
}

func (r *supplierPostgresRepo) DeleteSupplier(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id=$1`, uid)
	return err
}
