package dto

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arpay/arpay/internal/domain/invoice"
	"github.com/arpay/arpay/internal/types"
	"github.com/arpay/arpay/internal/validator"
)

// CreateInvoiceRequest carries a new invoice. The invoice number is never
// client supplied, it is generated server side.
type CreateInvoiceRequest struct {
	CustomerName  string            `json:"customer_name" validate:"required"`
	ProjectName   *string           `json:"project_name,omitempty"`
	CustomerPhone *string           `json:"customer_phone,omitempty"`
	Reference     *string           `json:"reference,omitempty"`
	LeadSource    *types.LeadSource `json:"lead_source,omitempty"`

	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Tax         *decimal.Decimal `json:"tax,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`

	TokenAmount           *decimal.Decimal `json:"token_amount,omitempty"`
	AgreementAmount       *decimal.Decimal `json:"agreement_amount,omitempty"`
	RegistrationAmount    *decimal.Decimal `json:"registration_amount,omitempty"`
	AgreementDueDate      *types.Date      `json:"agreement_due_date,omitempty"`
	AgreementDueAmount    *decimal.Decimal `json:"agreement_due_amount,omitempty"`
	RegistrationDueDate   *types.Date      `json:"registration_due_date,omitempty"`
	RegistrationDueAmount *decimal.Decimal `json:"registration_due_amount,omitempty"`

	Status      types.InvoiceStatus `json:"status" validate:"required"`
	InvoiceType types.InvoiceType   `json:"invoice_type" validate:"required"`
	InvoiceDate types.Date          `json:"invoice_date" validate:"required"`
	DueDate     types.Date          `json:"due_date" validate:"required"`

	Notes       *string         `json:"notes,omitempty"`
	LineItems   json.RawMessage `json:"line_items,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Status.Validate(); err != nil {
		return err
	}
	if err := r.InvoiceType.Validate(); err != nil {
		return err
	}
	if r.LeadSource != nil {
		if err := r.LeadSource.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToInvoice converts the request to a domain invoice. The financial triple
// is reconciled here so the model never stores an inconsistent total.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	amount, total := invoice.Reconcile(r.Amount, r.Tax, r.TotalAmount)

	now := time.Now().UTC()
	return &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		CustomerName:  r.CustomerName,
		ProjectName:   r.ProjectName,
		CustomerPhone: r.CustomerPhone,
		Reference:     r.Reference,
		LeadSource:    r.LeadSource,

		Amount:      amount,
		Tax:         r.Tax,
		TotalAmount: total,

		TokenAmount:           r.TokenAmount,
		AgreementAmount:       r.AgreementAmount,
		RegistrationAmount:    r.RegistrationAmount,
		AgreementDueDate:      r.AgreementDueDate,
		AgreementDueAmount:    r.AgreementDueAmount,
		RegistrationDueDate:   r.RegistrationDueDate,
		RegistrationDueAmount: r.RegistrationDueAmount,

		Status:      r.Status,
		InvoiceType: r.InvoiceType,
		InvoiceDate: r.InvoiceDate,
		DueDate:     r.DueDate,

		Notes:       r.Notes,
		LineItems:   invoice.NewStructuredField(r.LineItems),
		Attachments: invoice.NewStructuredField(r.Attachments),

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateInvoiceRequest is a partial update. Absent fields leave the stored
// value untouched, present fields overwrite it.
type UpdateInvoiceRequest struct {
	CustomerName  *string           `json:"customer_name,omitempty"`
	ProjectName   *string           `json:"project_name,omitempty"`
	CustomerPhone *string           `json:"customer_phone,omitempty"`
	Reference     *string           `json:"reference,omitempty"`
	LeadSource    *types.LeadSource `json:"lead_source,omitempty"`

	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Tax         *decimal.Decimal `json:"tax,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`

	TokenAmount           *decimal.Decimal `json:"token_amount,omitempty"`
	AgreementAmount       *decimal.Decimal `json:"agreement_amount,omitempty"`
	RegistrationAmount    *decimal.Decimal `json:"registration_amount,omitempty"`
	AgreementDueDate      *types.Date      `json:"agreement_due_date,omitempty"`
	AgreementDueAmount    *decimal.Decimal `json:"agreement_due_amount,omitempty"`
	RegistrationDueDate   *types.Date      `json:"registration_due_date,omitempty"`
	RegistrationDueAmount *decimal.Decimal `json:"registration_due_amount,omitempty"`

	Status      *types.InvoiceStatus `json:"status,omitempty"`
	InvoiceType *types.InvoiceType   `json:"invoice_type,omitempty"`
	InvoiceDate *types.Date          `json:"invoice_date,omitempty"`
	DueDate     *types.Date          `json:"due_date,omitempty"`

	Notes       *string         `json:"notes,omitempty"`
	LineItems   json.RawMessage `json:"line_items,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Status != nil {
		if err := r.Status.Validate(); err != nil {
			return err
		}
	}
	if r.InvoiceType != nil {
		if err := r.InvoiceType.Validate(); err != nil {
			return err
		}
	}
	if r.LeadSource != nil {
		if err := r.LeadSource.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the patch into an existing invoice and re-reconciles the
// financial triple. When the patch carries no total the total is recomputed
// from the merged amount and tax, a patched total always wins.
func (r *UpdateInvoiceRequest) Apply(inv *invoice.Invoice) {
	if r.CustomerName != nil {
		inv.CustomerName = *r.CustomerName
	}
	if r.ProjectName != nil {
		inv.ProjectName = r.ProjectName
	}
	if r.CustomerPhone != nil {
		inv.CustomerPhone = r.CustomerPhone
	}
	if r.Reference != nil {
		inv.Reference = r.Reference
	}
	if r.LeadSource != nil {
		inv.LeadSource = r.LeadSource
	}

	if r.Amount != nil {
		inv.Amount = *r.Amount
	}
	if r.Tax != nil {
		inv.Tax = r.Tax
	}
	if r.TotalAmount != nil {
		inv.TotalAmount = *r.TotalAmount
	} else if r.Amount != nil || r.Tax != nil {
		amount, total := invoice.Reconcile(&inv.Amount, inv.Tax, nil)
		inv.Amount = amount
		inv.TotalAmount = total
	}

	if r.TokenAmount != nil {
		inv.TokenAmount = r.TokenAmount
	}
	if r.AgreementAmount != nil {
		inv.AgreementAmount = r.AgreementAmount
	}
	if r.RegistrationAmount != nil {
		inv.RegistrationAmount = r.RegistrationAmount
	}
	if r.AgreementDueDate != nil {
		inv.AgreementDueDate = r.AgreementDueDate
	}
	if r.AgreementDueAmount != nil {
		inv.AgreementDueAmount = r.AgreementDueAmount
	}
	if r.RegistrationDueDate != nil {
		inv.RegistrationDueDate = r.RegistrationDueDate
	}
	if r.RegistrationDueAmount != nil {
		inv.RegistrationDueAmount = r.RegistrationDueAmount
	}

	if r.Status != nil {
		inv.Status = *r.Status
	}
	if r.InvoiceType != nil {
		inv.InvoiceType = *r.InvoiceType
	}
	if r.InvoiceDate != nil {
		inv.InvoiceDate = *r.InvoiceDate
	}
	if r.DueDate != nil {
		inv.DueDate = *r.DueDate
	}

	if r.Notes != nil {
		inv.Notes = r.Notes
	}
	if len(r.LineItems) > 0 {
		inv.LineItems = invoice.NewStructuredField(r.LineItems)
	}
	if len(r.Attachments) > 0 {
		inv.Attachments = invoice.NewStructuredField(r.Attachments)
	}

	inv.UpdatedAt = time.Now().UTC()
}

// InvoiceResponse is the API representation of an invoice. Flexible fields
// always render as JSON regardless of how they are stored.
type InvoiceResponse struct {
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	CustomerName  string            `json:"customer_name"`
	ProjectName   *string           `json:"project_name,omitempty"`
	CustomerPhone *string           `json:"customer_phone,omitempty"`
	Reference     *string           `json:"reference,omitempty"`
	LeadSource    *types.LeadSource `json:"lead_source,omitempty"`

	Amount      decimal.Decimal  `json:"amount"`
	Tax         *decimal.Decimal `json:"tax,omitempty"`
	TotalAmount decimal.Decimal  `json:"total_amount"`

	TokenAmount           *decimal.Decimal `json:"token_amount,omitempty"`
	AgreementAmount       *decimal.Decimal `json:"agreement_amount,omitempty"`
	RegistrationAmount    *decimal.Decimal `json:"registration_amount,omitempty"`
	AgreementDueDate      *types.Date      `json:"agreement_due_date,omitempty"`
	AgreementDueAmount    *decimal.Decimal `json:"agreement_due_amount,omitempty"`
	RegistrationDueDate   *types.Date      `json:"registration_due_date,omitempty"`
	RegistrationDueAmount *decimal.Decimal `json:"registration_due_amount,omitempty"`

	Status      types.InvoiceStatus `json:"status"`
	InvoiceType types.InvoiceType   `json:"invoice_type"`
	InvoiceDate types.Date          `json:"invoice_date"`
	DueDate     types.Date          `json:"due_date"`

	Notes       *string         `json:"notes,omitempty"`
	LineItems   json.RawMessage `json:"line_items,omitempty"`
	Attachments json.RawMessage `json:"attachments,omitempty"`

	CreatedBy     string    `json:"created_by"`
	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewInvoiceResponse(inv *invoice.Invoice, createdByName string) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerName:  inv.CustomerName,
		ProjectName:   inv.ProjectName,
		CustomerPhone: inv.CustomerPhone,
		Reference:     inv.Reference,
		LeadSource:    inv.LeadSource,

		Amount:      inv.Amount,
		Tax:         inv.Tax,
		TotalAmount: inv.TotalAmount,

		TokenAmount:           inv.TokenAmount,
		AgreementAmount:       inv.AgreementAmount,
		RegistrationAmount:    inv.RegistrationAmount,
		AgreementDueDate:      inv.AgreementDueDate,
		AgreementDueAmount:    inv.AgreementDueAmount,
		RegistrationDueDate:   inv.RegistrationDueDate,
		RegistrationDueAmount: inv.RegistrationDueAmount,

		Status:      inv.Status,
		InvoiceType: inv.InvoiceType,
		InvoiceDate: inv.InvoiceDate,
		DueDate:     inv.DueDate,

		Notes:       inv.Notes,
		LineItems:   inv.LineItems.JSONValue(),
		Attachments: inv.Attachments.JSONValue(),

		CreatedBy:     inv.CreatedBy,
		CreatedByName: createdByName,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// ListInvoicesResponse is a page of invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

// InvoiceStatsResponse carries an aggregate over invoices in one status
type InvoiceStatsResponse struct {
	Status types.InvoiceStatus `json:"status"`
	Total  *decimal.Decimal    `json:"total_amount,omitempty"`
	Count  *int64              `json:"count,omitempty"`
}
