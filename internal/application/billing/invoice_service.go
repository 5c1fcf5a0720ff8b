package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haulstack/tms/internal/domain/billing"
	"github.com/haulstack/tms/internal/domain/freight"
	"github.com/haulstack/tms/internal/domain/identity"
	"github.com/haulstack/tms/internal/domain/partner"
	"github.com/haulstack/tms/internal/domain/shared"
	"github.com/haulstack/tms/internal/infrastructure/pdf"
	"github.com/haulstack/tms/internal/infrastructure/storage"
)

// InvoiceService handles the invoice lifecycle including PDF generation
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	loadRepo     freight.LoadRepository
	customerRepo partner.CustomerRepository
	companyRepo  identity.CompanyRepository
	renderer     pdf.InvoiceRenderer
	store        storage.ObjectStorage
	logger       *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	loadRepo freight.LoadRepository,
	customerRepo partner.CustomerRepository,
	companyRepo identity.CompanyRepository,
	renderer pdf.InvoiceRenderer,
	store storage.ObjectStorage,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		loadRepo:     loadRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		renderer:     renderer,
		store:        store,
		logger:       logger,
	}
}

// Create drafts an invoice for a delivered load. One invoice per load.
func (s *InvoiceService) Create(ctx context.Context, companyID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	s.logger.Info("Creating invoice",
		zap.String("company_id", companyID.String()),
		zap.String("load_id", req.LoadID.String()))

	load, err := s.loadRepo.FindByID(ctx, req.LoadID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Load not found")
		}
		s.logger.Error("Failed to look up load", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to validate load")
	}
	if !load.Billable() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only delivered loads can be invoiced")
	}

	if _, err := s.invoiceRepo.FindByLoad(ctx, req.LoadID); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This load has already been invoiced")
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check existing invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to check existing invoice")
	}

	amount := load.TotalAmount()
	if req.Amount != nil {
		amount = *req.Amount
	}

	// The invoice carries the parent load's company so scope filters on
	// the invoice row alone stay correct.
	invoice, err := billing.NewInvoice(load.CompanyID, load.ID, load.CustomerID, req.InvoiceNumber, amount)
	if err != nil {
		return nil, err
	}
	invoice.Notes = req.Notes

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		s.logger.Error("Failed to save invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create invoice")
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Get returns an invoice visible to the caller
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// List returns invoices visible to the caller
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (*InvoiceListResult, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	invoices, total, err := s.invoiceRepo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list invoices")
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, i := range invoices {
		responses = append(responses, ToInvoiceResponse(i))
	}
	return &InvoiceListResult{
		Invoices: responses,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// ListOverdue returns sent invoices past their due date
func (s *InvoiceService) ListOverdue(ctx context.Context, companyID uuid.UUID) ([]InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, companyID, time.Now())
	if err != nil {
		s.logger.Error("Failed to list overdue invoices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to list overdue invoices")
	}
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, i := range invoices {
		responses = append(responses, ToInvoiceResponse(i))
	}
	return responses, nil
}

// Send issues a draft invoice. The net term falls back to the customer's
// payment term when the request leaves it out.
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID, req SendInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	netDays := 30
	if req.NetDays != nil {
		netDays = *req.NetDays
	} else if customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID); err == nil && customer.PaymentTerm > 0 {
		netDays = customer.PaymentTerm
	}

	if err := invoice.Send(time.Now(), netDays); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to send invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to send invoice")
	}

	s.logger.Info("Invoice sent",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int("net_days", netDays))

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// MarkPaid records payment against a sent invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(time.Now()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to mark invoice paid", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to mark invoice paid")
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Void cancels an unpaid invoice
func (s *InvoiceService) Void(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Void(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		s.logger.Error("Failed to void invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to void invoice")
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// Delete removes an invoice
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrNotFound
		}
		s.logger.Error("Failed to delete invoice", zap.Error(err))
		return shared.NewDomainError("INTERNAL", "Failed to delete invoice")
	}
	return nil
}

// GeneratePDF renders the invoice, stores the document, and records the key
// on the invoice row. The stored object is removed again when the row update
// fails, so the key on the invoice always points at a real document.
func (s *InvoiceService) GeneratePDF(ctx context.Context, id uuid.UUID) (*InvoicePDFResult, error) {
	invoice, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	load, err := s.loadRepo.FindByID(ctx, invoice.LoadID)
	if err != nil {
		s.logger.Error("Failed to fetch load for invoice PDF", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to render invoice")
	}
	customer, err := s.customerRepo.FindByID(ctx, invoice.CustomerID)
	if err != nil {
		s.logger.Error("Failed to load customer for invoice PDF", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to render invoice")
	}
	company, err := s.companyRepo.FindByID(ctx, invoice.CompanyID)
	if err != nil {
		s.logger.Error("Failed to load company for invoice PDF", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to render invoice")
	}

	data, err := s.renderer.Render(ctx, invoice, company, customer, load)
	if err != nil {
		s.logger.Error("Failed to render invoice PDF", zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to render invoice PDF")
	}

	key := storage.NewDocumentKey(invoice.CompanyID, invoice.InvoiceNumber+".pdf")
	if err := s.store.Put(ctx, key, data, "application/pdf"); err != nil {
		s.logger.Error("Failed to store invoice PDF", zap.Error(err))
		return nil, shared.NewDomainError("UPSTREAM_FAILURE", "Failed to store invoice PDF")
	}

	if err := invoice.AttachDocument(key); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to clean up orphaned invoice PDF",
				zap.String("key", key), zap.Error(delErr))
		}
		s.logger.Error("Failed to record invoice document key", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to record invoice document")
	}

	s.logger.Info("Invoice PDF generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("document_key", key))

	return &InvoicePDFResult{
		DocumentKey: key,
		Data:        data,
		ContentType: "application/pdf",
	}, nil
}

func (s *InvoiceService) findInvoice(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		s.logger.Error("Failed to load invoice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to load invoice")
	}
	return invoice, nil
}
