package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/arpay/arpay/internal/types"
)

func validInvoice() *Invoice {
	return &Invoice{
		ID:            "inv_test",
		InvoiceNumber: "INV-202506-00001",
		CustomerName:  "Ravi Sharma",
		Amount:        decimal.NewFromInt(100),
		TotalAmount:   decimal.NewFromInt(118),
		Status:        types.InvoiceStatusPending,
		InvoiceType:   types.InvoiceTypeProject,
		InvoiceDate:   types.NewDate(2025, time.June, 1),
		DueDate:       types.NewDate(2025, time.July, 1),
	}
}

func TestInvoiceValidate(t *testing.T) {
	assert.NoError(t, validInvoice().Validate())

	noName := validInvoice()
	noName.CustomerName = ""
	assert.Error(t, noName.Validate())

	badStatus := validInvoice()
	badStatus.Status = "CANCELLED"
	assert.Error(t, badStatus.Validate())

	badSource := validInvoice()
	badSource.LeadSource = new(types.LeadSource)
	assert.Error(t, badSource.Validate())

	noDate := validInvoice()
	noDate.DueDate = types.Date{}
	assert.Error(t, noDate.Validate())
}

func TestInvoiceIsOverdue(t *testing.T) {
	inv := validInvoice()
	dueDate := inv.DueDate

	assert.False(t, inv.IsOverdue(dueDate), "not overdue on the due date itself")
	assert.True(t, inv.IsOverdue(types.NewDate(2025, time.July, 2)))
	assert.False(t, inv.IsOverdue(types.NewDate(2025, time.June, 30)))

	inv.Status = types.InvoiceStatusPaid
	assert.False(t, inv.IsOverdue(types.NewDate(2025, time.July, 2)), "paid invoices are never overdue")
}

func TestInvoiceNumberFormatting(t *testing.T) {
	assert.Equal(t, "INV-202506-00042", FormatNumber("202506", 42))
	assert.Equal(t, "INV-202512-00001", Sequence{YearMonth: "202512", LastValue: 1}.InvoiceNumber())
}
