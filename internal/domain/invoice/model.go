package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/arpay/arpay/internal/errors"
	"github.com/arpay/arpay/internal/types"
)

// Invoice represents the invoice domain model
type Invoice struct {
	ID            string            `db:"id" json:"id"`
	InvoiceNumber string            `db:"invoice_number" json:"invoice_number"`
	CustomerName  string            `db:"customer_name" json:"customer_name"`
	ProjectName   *string           `db:"project_name" json:"project_name,omitempty"`
	CustomerPhone *string           `db:"customer_phone" json:"customer_phone,omitempty"`
	Reference     *string           `db:"reference" json:"reference,omitempty"`
	LeadSource    *types.LeadSource `db:"lead_source" json:"lead_source,omitempty"`

	// Financial triple, kept consistent by Reconcile
	Amount      decimal.Decimal  `db:"amount" json:"amount"`
	Tax         *decimal.Decimal `db:"tax" json:"tax,omitempty"`
	TotalAmount decimal.Decimal  `db:"total_amount" json:"total_amount"`

	// Payment breakdown for real estate projects. Independent of the
	// financial triple, never arithmetically validated against it.
	TokenAmount           *decimal.Decimal `db:"token_amount" json:"token_amount,omitempty"`
	AgreementAmount       *decimal.Decimal `db:"agreement_amount" json:"agreement_amount,omitempty"`
	RegistrationAmount    *decimal.Decimal `db:"registration_amount" json:"registration_amount,omitempty"`
	AgreementDueDate      *types.Date      `db:"agreement_due_date" json:"agreement_due_date,omitempty"`
	AgreementDueAmount    *decimal.Decimal `db:"agreement_due_amount" json:"agreement_due_amount,omitempty"`
	RegistrationDueDate   *types.Date      `db:"registration_due_date" json:"registration_due_date,omitempty"`
	RegistrationDueAmount *decimal.Decimal `db:"registration_due_amount" json:"registration_due_amount,omitempty"`

	Status      types.InvoiceStatus `db:"status" json:"status"`
	InvoiceType types.InvoiceType   `db:"invoice_type" json:"invoice_type"`

	InvoiceDate types.Date `db:"invoice_date" json:"invoice_date"`
	DueDate     types.Date `db:"due_date" json:"due_date"`

	Notes       *string   `db:"notes" json:"notes,omitempty"`
	LineItems   FlexField `db:"line_items" json:"line_items,omitempty"`
	Attachments FlexField `db:"attachments" json:"attachments,omitempty"`

	CreatedBy string    `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Validate checks the invariants every persisted invoice must satisfy
func (i *Invoice) Validate() error {
	if i.CustomerName == "" {
		return ierr.NewError("customer name is required").
			WithHint("Customer name is required").
			Mark(ierr.ErrValidation)
	}
	if err := i.Status.Validate(); err != nil {
		return err
	}
	if err := i.InvoiceType.Validate(); err != nil {
		return err
	}
	if i.LeadSource != nil {
		if err := i.LeadSource.Validate(); err != nil {
			return err
		}
	}
	if i.InvoiceDate.IsZero() {
		return ierr.NewError("invoice date is required").
			WithHint("Invoice date is required").
			Mark(ierr.ErrValidation)
	}
	if i.DueDate.IsZero() {
		return ierr.NewError("due date is required").
			WithHint("Due date is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsOverdue reports whether the invoice counts as overdue on the given day.
// Overdue is a derived predicate, not a persisted recomputation.
func (i *Invoice) IsOverdue(asOf types.Date) bool {
	return i.DueDate.Before(asOf) && i.Status != types.InvoiceStatusPaid
}
