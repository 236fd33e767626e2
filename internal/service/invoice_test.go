package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/arpay/arpay/internal/api/dto"
	"github.com/arpay/arpay/internal/domain/invoice"
	"github.com/arpay/arpay/internal/domain/user"
	ierr "github.com/arpay/arpay/internal/errors"
	"github.com/arpay/arpay/internal/testutil"
	"github.com/arpay/arpay/internal/types"
)

type InvoiceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service InvoiceService
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInvoiceService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		InvoiceRepo: s.GetStores().InvoiceRepo,
		UserRepo:    s.GetStores().UserRepo,
	})
}

func (s *InvoiceServiceSuite) newCreateRequest() *dto.CreateInvoiceRequest {
	return &dto.CreateInvoiceRequest{
		CustomerName: "Ravi Sharma",
		ProjectName:  lo.ToPtr("Green Meadows Phase 2"),
		Amount:       lo.ToPtr(decimal.NewFromInt(100)),
		Tax:          lo.ToPtr(decimal.NewFromInt(18)),
		Status:       types.InvoiceStatusPending,
		InvoiceType:  types.InvoiceTypeProject,
		InvoiceDate:  types.NewDate(2025, time.June, 1),
		DueDate:      types.NewDate(2025, time.July, 1),
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoiceComputesTotal() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.NotNil(resp)

	s.True(resp.Amount.Equal(decimal.NewFromInt(100)))
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(118)), "total = amount + tax")
	s.Equal(types.InvoiceStatusPending, resp.Status)
	s.NotEmpty(resp.ID)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceNumberFormat() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	expected := fmt.Sprintf("INV-%s-00001", time.Now().UTC().Format("200601"))
	s.Equal(expected, resp.InvoiceNumber)

	resp2, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal(fmt.Sprintf("INV-%s-00002", time.Now().UTC().Format("200601")), resp2.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceConcurrentNumbersAreUnique() {
	const n = 20

	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := make(map[string]struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
			s.NoError(err)

			mu.Lock()
			numbers[resp.InvoiceNumber] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(numbers, n, "every invoice received a distinct number")
}

func (s *InvoiceServiceSuite) TestCreateInvoiceTotalOnly() {
	req := s.newCreateRequest()
	req.Amount = nil
	req.Tax = nil
	req.TotalAmount = lo.ToPtr(decimal.NewFromInt(5000))

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.Amount.Equal(decimal.NewFromInt(5000)), "amount defaults to total")
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(5000)))
}

func (s *InvoiceServiceSuite) TestCreateInvoiceExplicitTotalWins() {
	req := s.newCreateRequest()
	req.TotalAmount = lo.ToPtr(decimal.NewFromInt(120))

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(120)), "supplied total is never recomputed")
}

func (s *InvoiceServiceSuite) TestCreateInvoiceNoAmounts() {
	req := s.newCreateRequest()
	req.Amount = nil
	req.Tax = nil

	resp, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.True(resp.Amount.IsZero())
	s.True(resp.TotalAmount.IsZero())
}

func (s *InvoiceServiceSuite) TestCreateInvoiceValidation() {
	req := s.newCreateRequest()
	req.CustomerName = ""

	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateInvoice(s.GetContext(), nil)
	s.Error(err)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceAttributedToSystemAccount() {
	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	sysUser, err := s.GetStores().UserRepo.GetByEmail(s.GetContext(), s.GetConfig().SystemAccount.Email)
	s.NoError(err, "system account is created on first use")
	s.Equal(sysUser.ID, resp.CreatedBy)
	s.Equal(sysUser.Name, resp.CreatedByName)
}

func (s *InvoiceServiceSuite) TestCreateInvoiceAttributedToRequestUser() {
	actor := &user.User{
		ID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email: "agent@arpay.local",
		Name:  "Asha Verma",
	}
	s.NoError(s.GetStores().UserRepo.Create(s.GetContext(), actor))
	s.SetContext(types.SetUserID(s.GetContext(), actor.ID))

	resp, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)
	s.Equal(actor.ID, resp.CreatedBy)
	s.Equal("Asha Verma", resp.CreatedByName)
}

func (s *InvoiceServiceSuite) TestGetInvoiceNotFound() {
	_, err := s.service.GetInvoice(s.GetContext(), "inv_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestGetInvoiceByNumber() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.GetInvoiceByNumber(s.GetContext(), created.InvoiceNumber)
	s.NoError(err)
	s.Equal(created.ID, resp.ID)
}

func (s *InvoiceServiceSuite) TestUpdateInvoicePartial() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.UpdateInvoice(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		Status: lo.ToPtr(types.InvoiceStatusPaid),
	})
	s.NoError(err)

	s.Equal(types.InvoiceStatusPaid, resp.Status)
	// Everything else is untouched
	s.Equal(created.CustomerName, resp.CustomerName)
	s.Equal(created.InvoiceNumber, resp.InvoiceNumber)
	s.True(created.TotalAmount.Equal(resp.TotalAmount))
	s.Equal(created.ProjectName, resp.ProjectName)
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceRecomputesTotal() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.UpdateInvoice(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		Amount: lo.ToPtr(decimal.NewFromInt(200)),
	})
	s.NoError(err)

	s.True(resp.Amount.Equal(decimal.NewFromInt(200)))
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(218)), "total recomputed from patched amount and stored tax")
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceExplicitTotalWins() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	resp, err := s.service.UpdateInvoice(s.GetContext(), created.ID, &dto.UpdateInvoiceRequest{
		Amount:      lo.ToPtr(decimal.NewFromInt(200)),
		TotalAmount: lo.ToPtr(decimal.NewFromInt(999)),
	})
	s.NoError(err)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(999)))
}

func (s *InvoiceServiceSuite) TestUpdateInvoiceNotFound() {
	_, err := s.service.UpdateInvoice(s.GetContext(), "inv_missing", &dto.UpdateInvoiceRequest{
		Status: lo.ToPtr(types.InvoiceStatusPaid),
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestDeleteInvoice() {
	created, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	s.NoError(s.service.DeleteInvoice(s.GetContext(), created.ID))

	_, err = s.service.GetInvoice(s.GetContext(), created.ID)
	s.True(ierr.IsNotFound(err))

	err = s.service.DeleteInvoice(s.GetContext(), created.ID)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestListInvoicesByStatus() {
	for i := 0; i < 3; i++ {
		_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
		s.NoError(err)
	}
	paidReq := s.newCreateRequest()
	paidReq.Status = types.InvoiceStatusPaid
	_, err := s.service.CreateInvoice(s.GetContext(), paidReq)
	s.NoError(err)

	filter := types.NewInvoiceFilter()
	filter.Status = lo.ToPtr(types.InvoiceStatusPending)

	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(int64(3), resp.Pagination.TotalElements)
	s.True(resp.Pagination.Last)
}

func (s *InvoiceServiceSuite) TestListInvoicesPagination() {
	for i := 0; i < 5; i++ {
		_, err := s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
		s.NoError(err)
	}

	filter := types.NewInvoiceFilter()
	filter.Page = lo.ToPtr(1)
	filter.Size = lo.ToPtr(2)

	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(int64(5), resp.Pagination.TotalElements)
	s.Equal(3, resp.Pagination.TotalPages)
	s.False(resp.Pagination.Last)
}

func (s *InvoiceServiceSuite) TestSearchInvoices() {
	req := s.newCreateRequest()
	req.CustomerName = "Meena Kapoor"
	_, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	_, err = s.service.CreateInvoice(s.GetContext(), s.newCreateRequest())
	s.NoError(err)

	filter := types.NewInvoiceFilter()
	filter.Search = "meena"

	resp, err := s.service.ListInvoices(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal("Meena Kapoor", resp.Items[0].CustomerName)
}

func (s *InvoiceServiceSuite) TestListInvoicesByDateRange() {
	early := s.newCreateRequest()
	early.InvoiceDate = types.NewDate(2025, time.January, 10)
	_, err := s.service.CreateInvoice(s.GetContext(), early)
	s.NoError(err)

	late := s.newCreateRequest()
	late.InvoiceDate = types.NewDate(2025, time.March, 5)
	_, err = s.service.CreateInvoice(s.GetContext(), late)
	s.NoError(err)

	resp, err := s.service.ListInvoicesByDateRange(s.GetContext(),
		types.NewDate(2025, time.January, 1), types.NewDate(2025, time.January, 31))
	s.NoError(err)
	s.Len(resp, 1)

	// Bounds are inclusive
	resp, err = s.service.ListInvoicesByDateRange(s.GetContext(),
		types.NewDate(2025, time.January, 10), types.NewDate(2025, time.March, 5))
	s.NoError(err)
	s.Len(resp, 2)

	_, err = s.service.ListInvoicesByDateRange(s.GetContext(),
		types.NewDate(2025, time.March, 1), types.NewDate(2025, time.January, 1))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *InvoiceServiceSuite) TestListOverdueInvoices() {
	yesterday := types.DateOf(time.Now().UTC().AddDate(0, 0, -1))
	tomorrow := types.DateOf(time.Now().UTC().AddDate(0, 0, 1))

	overdue := s.newCreateRequest()
	overdue.DueDate = yesterday
	created, err := s.service.CreateInvoice(s.GetContext(), overdue)
	s.NoError(err)

	// Paid invoices never count as overdue
	paid := s.newCreateRequest()
	paid.DueDate = yesterday
	paid.Status = types.InvoiceStatusPaid
	_, err = s.service.CreateInvoice(s.GetContext(), paid)
	s.NoError(err)

	// Due today is not yet overdue
	dueToday := s.newCreateRequest()
	dueToday.DueDate = types.Today()
	_, err = s.service.CreateInvoice(s.GetContext(), dueToday)
	s.NoError(err)

	notDue := s.newCreateRequest()
	notDue.DueDate = tomorrow
	_, err = s.service.CreateInvoice(s.GetContext(), notDue)
	s.NoError(err)

	resp, err := s.service.ListOverdueInvoices(s.GetContext())
	s.NoError(err)
	s.Len(resp, 1)
	s.Equal(created.ID, resp[0].ID)
	// The stored status is untouched by the overdue listing
	s.Equal(types.InvoiceStatusPending, resp[0].Status)
}

func (s *InvoiceServiceSuite) TestStatsByStatus() {
	first := s.newCreateRequest()
	first.TotalAmount = lo.ToPtr(decimal.NewFromInt(1000))
	_, err := s.service.CreateInvoice(s.GetContext(), first)
	s.NoError(err)

	second := s.newCreateRequest()
	second.TotalAmount = lo.ToPtr(decimal.NewFromInt(250))
	_, err = s.service.CreateInvoice(s.GetContext(), second)
	s.NoError(err)

	paid := s.newCreateRequest()
	paid.Status = types.InvoiceStatusPaid
	paid.TotalAmount = lo.ToPtr(decimal.NewFromInt(9999))
	_, err = s.service.CreateInvoice(s.GetContext(), paid)
	s.NoError(err)

	total, err := s.service.GetTotalAmountByStatus(s.GetContext(), types.InvoiceStatusPending)
	s.NoError(err)
	s.True(total.Equal(decimal.NewFromInt(1250)))

	count, err := s.service.GetInvoiceCountByStatus(s.GetContext(), types.InvoiceStatusPending)
	s.NoError(err)
	s.Equal(int64(2), count)

	// No invoices in a status sums to zero
	total, err = s.service.GetTotalAmountByStatus(s.GetContext(), types.InvoiceStatusPartial)
	s.NoError(err)
	s.True(total.IsZero())
}

func (s *InvoiceServiceSuite) TestLineItemsRoundTrip() {
	req := s.newCreateRequest()
	req.LineItems = json.RawMessage(`[{"description": "Token payment", "amount": 50000}]`)

	created, err := s.service.CreateInvoice(s.GetContext(), req)
	s.NoError(err)
	s.JSONEq(`[{"description":"Token payment","amount":50000}]`, string(created.LineItems))

	fetched, err := s.service.GetInvoice(s.GetContext(), created.ID)
	s.NoError(err)
	s.JSONEq(`[{"description":"Token payment","amount":50000}]`, string(fetched.LineItems))
}

func (s *InvoiceServiceSuite) TestMalformedStoredLineItemsAreTolerated() {
	// Simulate a legacy row whose line items were stored as plain text
	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		InvoiceNumber: "INV-202401-00042",
		CustomerName:  "Legacy Customer",
		Amount:        decimal.NewFromInt(100),
		TotalAmount:   decimal.NewFromInt(100),
		Status:        types.InvoiceStatusPending,
		InvoiceType:   types.InvoiceTypeCustomer,
		InvoiceDate:   types.NewDate(2024, time.January, 1),
		DueDate:       types.NewDate(2024, time.February, 1),
		LineItems:     invoice.DecodeFlexField(`two flats, one parking {`),
		CreatedBy:     "user_legacy",
	}
	s.NoError(s.GetStores().InvoiceRepo.Create(s.GetContext(), inv))

	fetched, err := s.service.GetInvoice(s.GetContext(), inv.ID)
	s.NoError(err, "a malformed flexible field never fails the read")
	s.Equal(`"two flats, one parking {"`, string(fetched.LineItems))
}
