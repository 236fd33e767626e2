package types

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvoiceStatus(t *testing.T) {
	status, err := ParseInvoiceStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPending, status)

	status, err = ParseInvoiceStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPaid, status)

	_, err = ParseInvoiceStatus("CANCELLED")
	assert.Error(t, err)
}

func TestParseInvoiceType(t *testing.T) {
	invoiceType, err := ParseInvoiceType("Project")
	require.NoError(t, err)
	assert.Equal(t, InvoiceTypeProject, invoiceType)

	_, err = ParseInvoiceType("UNKNOWN")
	assert.Error(t, err)
}

func TestParseLeadSource(t *testing.T) {
	tests := []struct {
		input string
		want  LeadSource
	}{
		{"MARKETING_DATA", LeadSourceMarketingData},
		{"marketing_data", LeadSourceMarketingData},
		{"Marketing Data", LeadSourceMarketingData},
		{"direct lead", LeadSourceDirectLead},
		{"Referral", LeadSourceReferral},
		{"social media", LeadSourceSocialMedia},
	}

	for _, tt := range tests {
		source, err := ParseLeadSource(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, source, "input %q", tt.input)
	}

	_, err := ParseLeadSource("carrier pigeon")
	assert.Error(t, err)
}

func TestLeadSourceDisplayName(t *testing.T) {
	assert.Equal(t, "Old Data", LeadSourceOldData.DisplayName())
	assert.Equal(t, "Direct Lead", LeadSourceDirectLead.DisplayName())
}

func TestInvoiceFilterValidate(t *testing.T) {
	filter := NewInvoiceFilter()
	require.NoError(t, filter.Validate())

	filter.Status = lo.ToPtr(InvoiceStatus("BOGUS"))
	assert.Error(t, filter.Validate())

	filter = NewInvoiceFilter()
	filter.Sort = lo.ToPtr("customer_phone")
	assert.Error(t, filter.Validate(), "unlisted sort fields are rejected")

	filter = NewInvoiceFilter()
	filter.Sort = lo.ToPtr("dueDate")
	require.NoError(t, filter.Validate())
	col, ok := InvoiceSortColumn(filter.GetSort())
	require.True(t, ok)
	assert.Equal(t, "due_date", col)
}

func TestQueryFilterDefaults(t *testing.T) {
	filter := NewDefaultQueryFilter()
	assert.Equal(t, FILTER_DEFAULT_PAGE, filter.GetPage())
	assert.Equal(t, FILTER_DEFAULT_SIZE, filter.GetSize())
	assert.Equal(t, FILTER_DEFAULT_SORT, filter.GetSort())
	assert.Equal(t, FILTER_DEFAULT_ORDER, filter.GetOrder())
	assert.False(t, filter.IsUnlimited())

	// A filter without a size is an unlimited query
	unlimited := NewNoLimitQueryFilter()
	assert.True(t, unlimited.IsUnlimited())
	assert.Equal(t, 0, unlimited.GetSize())
}

func TestQueryFilterOffset(t *testing.T) {
	filter := &QueryFilter{
		Page: lo.ToPtr(3),
		Size: lo.ToPtr(25),
	}
	assert.Equal(t, 75, filter.GetOffset())
}

func TestPaginationResponse(t *testing.T) {
	p := NewPaginationResponse(0, 20, 45)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(45), p.TotalElements)
	assert.False(t, p.Last)

	p = NewPaginationResponse(2, 20, 45)
	assert.True(t, p.Last)

	p = NewPaginationResponse(0, 20, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.True(t, p.Last)
}
