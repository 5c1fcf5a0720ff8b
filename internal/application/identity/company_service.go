package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/domain/shared"
)

// CompanyService handles company settings and the privileged company list
type CompanyService struct {
	companyRepo identity.CompanyRepository
	logger      *zap.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo identity.CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{companyRepo: companyRepo, logger: logger}
}

// Get returns a company by ID
func (s *CompanyService) Get(ctx context.Context, companyID uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load company")
	}
	resp := ToCompanyResponse(company)
	return &resp, nil
}

// Update modifies company settings
func (s *CompanyService) Update(ctx context.Context, companyID uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load company")
	}

	if req.Name != nil {
		if err := company.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.DOTNumber != nil || req.MCNumber != nil {
		dot, mc := company.DOTNumber, company.MCNumber
		if req.DOTNumber != nil {
			dot = *req.DOTNumber
		}
		if req.MCNumber != nil {
			mc = *req.MCNumber
		}
		company.SetAuthority(dot, mc)
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.State != nil {
		company.State = *req.State
	}
	if req.ZipCode != nil {
		company.ZipCode = *req.ZipCode
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Email != nil {
		company.Email = *req.Email
	}
	company.Touch()

	if err := s.companyRepo.Update(ctx, company); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to update company", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update company")
	}

	resp := ToCompanyResponse(company)
	return &resp, nil
}

// List returns all companies. The handler restricts this to privileged users.
func (s *CompanyService) List(ctx context.Context, filter CompanyListFilter) (*CompanyListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	companies, total, err := s.companyRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list companies", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list companies")
	}

	responses := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, ToCompanyResponse(c))
	}
	return &CompanyListResult{
		Companies: responses,
		Total:     total,
		Page:      f.Page,
		PageSize:  f.PageSize,
	}, nil
}
