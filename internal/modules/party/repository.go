package party

import "context"

// CustomerRepository defines customer data storage.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomerByID(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

// SupplierRepository defines supplier data storage.
type SupplierRepository interface {
	CreateSupplier(ctx context.Context, s *Supplier) error
	GetSupplierByID(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, s *Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
}
