package invoice

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/arpay/arpay/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// Create persists a new invoice
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetByNumber retrieves an invoice by its human-facing number
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	// ExistsByNumber reports whether an invoice with the number exists
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// Update persists changes to an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice permanently
	Delete(ctx context.Context, id string) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices matching the filter
	Count(ctx context.Context, filter *types.InvoiceFilter) (int64, error)

	// ListByDateRange returns invoices with invoice_date in the inclusive
	// range, unpaged
	ListByDateRange(ctx context.Context, start, end types.Date) ([]*Invoice, error)

	// ListOverdue returns invoices with due_date before asOf and status
	// other than PAID, unpaged
	ListOverdue(ctx context.Context, asOf types.Date) ([]*Invoice, error)

	// SumTotalAmountByStatus sums total_amount across invoices with the
	// status; zero when none match
	SumTotalAmountByStatus(ctx context.Context, status types.InvoiceStatus) (decimal.Decimal, error)

	// CountByStatus counts invoices with the status
	CountByStatus(ctx context.Context, status types.InvoiceStatus) (int64, error)

	// NextInvoiceNumber atomically claims the next number in the monthly
	// sequence. Safe under concurrent creation.
	NextInvoiceNumber(ctx context.Context) (string, error)
}
