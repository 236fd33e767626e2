package types

import (
	"strings"

	"github.com/samber/lo"

	ierr "github.com/arpay/arpay/internal/errors"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle.
// Overdue listing is a query-time predicate over due_date and status, the
// stored status is never recomputed on read.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusPartial,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ParseInvoiceStatus accepts wire values case-insensitively
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	s := InvoiceStatus(strings.ToUpper(value))
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// InvoiceType categorizes the purpose and nature of the invoice
type InvoiceType string

const (
	InvoiceTypeProject  InvoiceType = "PROJECT"
	InvoiceTypeCustomer InvoiceType = "CUSTOMER"
	InvoiceTypeExpense  InvoiceType = "EXPENSE"
)

func (t InvoiceType) String() string {
	return string(t)
}

func (t InvoiceType) Validate() error {
	allowed := []InvoiceType{
		InvoiceTypeProject,
		InvoiceTypeCustomer,
		InvoiceTypeExpense,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Please provide a valid invoice type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ParseInvoiceType accepts wire values case-insensitively
func ParseInvoiceType(value string) (InvoiceType, error) {
	t := InvoiceType(strings.ToUpper(value))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// LeadSource tracks where the customer behind an invoice came from. The
// storage key is the enum name; DisplayName is the human-facing label.
type LeadSource string

const (
	LeadSourceMarketingData LeadSource = "MARKETING_DATA"
	LeadSourceOldData       LeadSource = "OLD_DATA"
	LeadSourceDirectLead    LeadSource = "DIRECT_LEAD"
	LeadSourceReferral      LeadSource = "REFERRAL"
	LeadSourceSocialMedia   LeadSource = "SOCIAL_MEDIA"
	LeadSourceOthers        LeadSource = "OTHERS"
)

var leadSourceDisplayNames = map[LeadSource]string{
	LeadSourceMarketingData: "Marketing Data",
	LeadSourceOldData:       "Old Data",
	LeadSourceDirectLead:    "Direct Lead",
	LeadSourceReferral:      "Referral",
	LeadSourceSocialMedia:   "Social Media",
	LeadSourceOthers:        "Others",
}

func (l LeadSource) String() string {
	return string(l)
}

// DisplayName returns the human-facing label for the lead source
func (l LeadSource) DisplayName() string {
	if name, ok := leadSourceDisplayNames[l]; ok {
		return name
	}
	return string(l)
}

func (l LeadSource) Validate() error {
	if _, ok := leadSourceDisplayNames[l]; !ok {
		return ierr.NewError("invalid lead source").
			WithHint("Please provide a valid lead source").
			WithReportableDetails(map[string]any{
				"allowed": lo.Keys(leadSourceDisplayNames),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ParseLeadSource accepts either the storage key or the display label,
// case-insensitively. Historical clients sent both forms.
func ParseLeadSource(value string) (LeadSource, error) {
	for source, display := range leadSourceDisplayNames {
		if strings.EqualFold(value, string(source)) || strings.EqualFold(value, display) {
			return source, nil
		}
	}
	return "", ierr.NewError("invalid lead source").
		WithHintf("Unknown lead source %q", value).
		Mark(ierr.ErrValidation)
}

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter

	// status restricts results to invoices with the given stored status
	Status *InvoiceStatus `json:"status,omitempty" form:"status"`

	// invoice_type restricts results to invoices of the given type
	InvoiceType *InvoiceType `json:"invoice_type,omitempty" form:"invoice_type"`

	// search matches case-insensitive substrings of customer name and
	// invoice number
	Search string `json:"search,omitempty" form:"search"`
}

// NewInvoiceFilter creates a new invoice filter with default options
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if _, ok := InvoiceSortColumn(f.GetSort()); !ok {
		return ierr.NewError("invalid sort field").
			WithHintf("Cannot sort invoices by %q", f.GetSort()).
			Mark(ierr.ErrValidation)
	}
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.InvoiceType != nil {
		if err := f.InvoiceType.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetPage implements BaseFilter
func (f *InvoiceFilter) GetPage() int {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_PAGE
	}
	return f.QueryFilter.GetPage()
}

// GetSize implements BaseFilter
func (f *InvoiceFilter) GetSize() int {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_SIZE
	}
	return f.QueryFilter.GetSize()
}

// GetOffset implements BaseFilter
func (f *InvoiceFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter
func (f *InvoiceFilter) GetSort() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_SORT
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter
func (f *InvoiceFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return FILTER_DEFAULT_ORDER
	}
	return f.QueryFilter.GetOrder()
}

func (f *InvoiceFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return false
	}
	return f.QueryFilter.IsUnlimited()
}

// invoiceSortColumns whitelists the sortable fields, mapping the wire name
// (and its snake_case storage twin) to the storage column.
var invoiceSortColumns = map[string]string{
	"createdAt":      "created_at",
	"created_at":     "created_at",
	"updatedAt":      "updated_at",
	"updated_at":     "updated_at",
	"invoiceDate":    "invoice_date",
	"invoice_date":   "invoice_date",
	"dueDate":        "due_date",
	"due_date":       "due_date",
	"invoiceNumber":  "invoice_number",
	"invoice_number": "invoice_number",
	"customerName":   "customer_name",
	"customer_name":  "customer_name",
	"amount":         "amount",
	"totalAmount":    "total_amount",
	"total_amount":   "total_amount",
	"status":         "status",
}

// InvoiceSortColumn resolves a caller supplied sort field to a storage column
func InvoiceSortColumn(field string) (string, bool) {
	col, ok := invoiceSortColumns[field]
	return col, ok
}
