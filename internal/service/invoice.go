package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/arpay/arpay/internal/api/dto"
	"github.com/arpay/arpay/internal/domain/invoice"
	ierr "github.com/arpay/arpay/internal/errors"
	"github.com/arpay/arpay/internal/types"
)

// InvoiceService drives the invoice lifecycle: creation with server side
// numbering, partial updates with financial reconciliation, lookups,
// filtered listing and aggregates.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error

	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
	ListInvoicesByDateRange(ctx context.Context, start, end types.Date) ([]*dto.InvoiceResponse, error)
	ListOverdueInvoices(ctx context.Context) ([]*dto.InvoiceResponse, error)

	GetTotalAmountByStatus(ctx context.Context, status types.InvoiceStatus) (decimal.Decimal, error)
	GetInvoiceCountByStatus(ctx context.Context, status types.InvoiceStatus) (int64, error)
}

type invoiceService struct {
	ServiceParams
	actor ActorService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		actor:         NewActorService(params),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if req == nil {
		return nil, ierr.NewError("invoice payload is required").
			WithHint("Request body is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var created *invoice.Invoice
	var actorName string

	// Number claim and insert share one transaction so an insert failure
	// rolls the claimed sequence value back.
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		actor, err := s.actor.ResolveActor(ctx)
		if err != nil {
			return err
		}

		inv := req.ToInvoice(ctx)
		inv.CreatedBy = actor.ID
		actorName = actor.Name

		number, err := s.InvoiceRepo.NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number

		if err := inv.Validate(); err != nil {
			return err
		}
		if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
			return err
		}

		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", created.ID,
		"invoice_number", created.InvoiceNumber,
		"customer_name", created.CustomerName)

	return dto.NewInvoiceResponse(created, actorName), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv, s.creatorName(ctx, inv.CreatedBy)), nil
}

func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error) {
	if number == "" {
		return nil, ierr.NewError("invoice number is required").
			WithHint("Invoice number is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv, s.creatorName(ctx, inv.CreatedBy)), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}
	if req == nil {
		return nil, ierr.NewError("update payload is required").
			WithHint("Request body is required").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *invoice.Invoice
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		inv, err := s.InvoiceRepo.Get(ctx, id)
		if err != nil {
			return err
		}

		req.Apply(inv)
		if err := inv.Validate(); err != nil {
			return err
		}
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}

		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("updated invoice",
		"invoice_id", updated.ID,
		"invoice_number", updated.InvoiceNumber)

	return dto.NewInvoiceResponse(updated, s.creatorName(ctx, updated.CreatedBy)), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("invoice id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	if err := s.InvoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.Logger.Infow("deleted invoice", "invoice_id", id)
	return nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items:      s.toResponses(ctx, invoices),
		Pagination: types.NewPaginationResponse(filter.GetPage(), filter.GetSize(), total),
	}, nil
}

func (s *invoiceService) ListInvoicesByDateRange(ctx context.Context, start, end types.Date) ([]*dto.InvoiceResponse, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ierr.NewError("start and end dates are required").
			WithHint("Both start and end dates are required").
			Mark(ierr.ErrValidation)
	}
	if end.Before(start) {
		return nil, ierr.NewError("invalid date range").
			WithHint("End date must not be before start date").
			Mark(ierr.ErrValidation)
	}

	invoices, err := s.InvoiceRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, invoices), nil
}

func (s *invoiceService) ListOverdueInvoices(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	invoices, err := s.InvoiceRepo.ListOverdue(ctx, types.Today())
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, invoices), nil
}

func (s *invoiceService) GetTotalAmountByStatus(ctx context.Context, status types.InvoiceStatus) (decimal.Decimal, error) {
	if err := status.Validate(); err != nil {
		return decimal.Zero, err
	}
	return s.InvoiceRepo.SumTotalAmountByStatus(ctx, status)
}

func (s *invoiceService) GetInvoiceCountByStatus(ctx context.Context, status types.InvoiceStatus) (int64, error) {
	if err := status.Validate(); err != nil {
		return 0, err
	}
	return s.InvoiceRepo.CountByStatus(ctx, status)
}

// creatorName resolves a user id to a display name, empty when unknown
func (s *invoiceService) creatorName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	u, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return u.Name
}

func (s *invoiceService) toResponses(ctx context.Context, invoices []*invoice.Invoice) []*dto.InvoiceResponse {
	names := make(map[string]string)
	for _, id := range lo.Uniq(lo.Map(invoices, func(inv *invoice.Invoice, _ int) string {
		return inv.CreatedBy
	})) {
		names[id] = s.creatorName(ctx, id)
	}

	return lo.Map(invoices, func(inv *invoice.Invoice, _ int) *dto.InvoiceResponse {
		return dto.NewInvoiceResponse(inv, names[inv.CreatedBy])
	})
}
