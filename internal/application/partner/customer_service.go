package partner

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/partner"
	"github.com/haulstack/tms/internal/domain/shared"
)

// CustomerService handles customer management
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

// Create creates a customer for the company
func (s *CustomerService) Create(ctx context.Context, companyID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	s.logger.Info("Creating customer",
		zap.String("company_id", companyID.String()),
		zap.String("name", req.Name))

	customer, err := partner.NewCustomer(companyID, req.Name)
	if err != nil {
		return nil, err
	}
	customer.SetContact(req.ContactName, req.Email, req.Phone)
	customer.Address = strings.TrimSpace(req.Address)
	customer.City = strings.TrimSpace(req.City)
	customer.State = strings.ToUpper(strings.TrimSpace(req.State))
	customer.ZipCode = strings.TrimSpace(req.ZipCode)
	customer.MCNumber = strings.TrimSpace(req.MCNumber)
	customer.Notes = req.Notes
	if req.PaymentTerm != nil {
		if err := customer.SetPaymentTerm(*req.PaymentTerm); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("Failed to save customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create customer")
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Get returns a customer visible to the caller
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load customer")
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns customers visible to the caller
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (*CustomerListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	customers, total, err := s.customerRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list customers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list customers")
	}

	responses := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		responses = append(responses, ToCustomerResponse(c))
	}
	return &CustomerListResult{
		Customers: responses,
		Total:     total,
		Page:      f.Page,
		PageSize:  f.PageSize,
	}, nil
}

// Update modifies a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load customer")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Customer name is required")
		}
		customer.Name = name
	}
	if req.ContactName != nil || req.Email != nil || req.Phone != nil {
		contact, email, phone := customer.ContactName, customer.Email, customer.Phone
		if req.ContactName != nil {
			contact = *req.ContactName
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		customer.SetContact(contact, email, phone)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		customer.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		customer.State = strings.ToUpper(strings.TrimSpace(*req.State))
	}
	if req.ZipCode != nil {
		customer.ZipCode = strings.TrimSpace(*req.ZipCode)
	}
	if req.MCNumber != nil {
		customer.MCNumber = strings.TrimSpace(*req.MCNumber)
	}
	if req.PaymentTerm != nil {
		if err := customer.SetPaymentTerm(*req.PaymentTerm); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	if req.Active != nil {
		if *req.Active {
			customer.Active = true
		} else {
			customer.Deactivate()
		}
	}
	customer.Touch()

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update customer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update customer")
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete customer", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete customer")
	}
	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}
