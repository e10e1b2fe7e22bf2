package party

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrValidation marks a rejected request payload.
var ErrValidation = errors.New("validation failed")

// Service defines customer and supplier business logic.
type Service interface {
	CreateCustomer(ctx context.Context, req PartyRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, id string, req PartyRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateSupplier(ctx context.Context, req PartyRequest) (*Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, id string, req PartyRequest) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type service struct {
	customerRepo CustomerRepository
	supplierRepo SupplierRepository
}

// NewService creates a new party service.
func NewService(customerRepo CustomerRepository, supplierRepo SupplierRepository) Service {
	return &service{customerRepo: customerRepo, supplierRepo: supplierRepo}
}

func validate(req PartyRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

func (s *service) CreateCustomer(ctx context.Context, req PartyRequest) (*Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c := &Customer{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		TaxID:   req.TaxID,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	}
	if err := s.customerRepo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.customerRepo.GetCustomerByID(ctx, id)
}

func (s *service) ListCustomers(ctx context.Context) ([]*Customer, error) {
	return s.customerRepo.ListCustomers(ctx)
}

func (s *service) UpdateCustomer(ctx context.Context, id string, req PartyRequest) (*Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c, err := s.customerRepo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	c.Name = strings.TrimSpace(req.Name)
	c.TaxID = req.TaxID
	c.Email = req.Email
	c.Phone = req.Phone
	c.Address = req.Address
	c.City = req.City
	if err := s.customerRepo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id string) error {
	return s.customerRepo.DeleteCustomer(ctx, id)
}

func (s *service) CreateSupplier(ctx context.Context, req PartyRequest) (*Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	sup := &Supplier{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		TaxID:   req.TaxID,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	}
	if err := s.supplierRepo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	return s.supplierRepo.GetSupplierByID(ctx, id)
}

func (s *service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.supplierRepo.ListSuppliers(ctx)
}

func (s *service) UpdateSupplier(ctx context.Context, id string, req PartyRequest) (*Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	sup, err := s.supplierRepo.GetSupplierByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("supplier not found: %w", err)
	}
	sup.Name = strings.TrimSpace(req.Name)
	sup.TaxID = req.TaxID
	sup.Email = req.Email
	sup.Phone = req.Phone
	sup.Address = req.Address
	sup.City = req.City
	if err := s.supplierRepo.UpdateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) DeleteSupplier(ctx context.Context, id string) error {
	return s.supplierRepo.DeleteSupplier(ctx, id)
}
