package service

import (
	"context"

	"bizledger/internal/model"
	"bizledger/internal/repository"
)

type CustomerRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
}

type SupplierRequest struct {
	SupplierID string `json:"supplier_id"`
	Name       string `json:"name" binding:"required"`
	Contact    string `json:"contact"`
	Email      string `json:"email" binding:"omitempty,email"`
}

// ContactService manages the parties sales and purchases are recorded against
type ContactService interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	CreateSupplier(ctx context.Context, req SupplierRequest) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, req SupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type contactService struct {
	customers repository.Collection[model.Customer]
	suppliers repository.Collection[model.Supplier]
	txManager repository.TransactionManager
}

func NewContactService(
	customers repository.Collection[model.Customer],
	suppliers repository.Collection[model.Supplier],
	txManager repository.TransactionManager,
) ContactService {
	return &contactService{customers: customers, suppliers: suppliers, txManager: txManager}
}

func (s *contactService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.customers.All(ctx)
}

func (s *contactService) CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c := &model.Customer{
		CustomerID: keyOrNew(req.CustomerID, model.PrefixCustomer),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.customers.Append(txCtx, c)
	}, model.TableCustomers)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contactService) UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var out *model.Customer
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.customers.Update(txCtx, id, func(c *model.Customer) error {
			c.Name = req.Name
			c.Email = req.Email
			c.Phone = req.Phone
			return nil
		})
		out = c
		return err
	}, model.TableCustomers)
	return out, err
}

func (s *contactService) DeleteCustomer(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.customers.Remove(txCtx, id)
	}, model.TableCustomers)
}

func (s *contactService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.suppliers.All(ctx)
}

func (s *contactService) CreateSupplier(ctx context.Context, req SupplierRequest) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	sup := &model.Supplier{
		SupplierID: keyOrNew(req.SupplierID, model.PrefixSupplier),
		Name:       req.Name,
		Contact:    req.Contact,
		Email:      req.Email,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.suppliers.Append(txCtx, sup)
	}, model.TableSuppliers)
	if err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *contactService) UpdateSupplier(ctx context.Context, id string, req SupplierRequest) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var out *model.Supplier
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sup, err := s.suppliers.Update(txCtx, id, func(sup *model.Supplier) error {
			sup.Name = req.Name
			sup.Contact = req.Contact
			sup.Email = req.Email
			return nil
		})
		out = sup
		return err
	}, model.TableSuppliers)
	return out, err
}

func (s *contactService) DeleteSupplier(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.suppliers.Remove(txCtx, id)
	}, model.TableSuppliers)
}
