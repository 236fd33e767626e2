package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arpay/arpay/internal/domain/invoice"
	ierr "github.com/arpay/arpay/internal/errors"
	"github.com/arpay/arpay/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]

	seqMu     sync.Mutex
	sequences map[string]int64
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
		sequences:     make(map[string]int64),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	c := *inv
	return &c
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").Mark(ierr.ErrValidation)
	}

	exists, err := s.ExistsByNumber(ctx, inv.InvoiceNumber)
	if err != nil {
		return err
	}
	if exists {
		return ierr.NewError("invoice already exists").
			WithHintf("Invoice with number %s already exists", inv.InvoiceNumber).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.WithError(err).
			WithHintf("Invoice with ID %s already exists", inv.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invoice not found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) GetByNumber(ctx context.Context, number string) (*invoice.Invoice, error) {
	all, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	for _, inv := range all {
		if inv.InvoiceNumber == number {
			return copyInvoice(inv), nil
		}
	}
	return nil, ierr.NewError("invoice not found").
		WithHintf("Invoice not found with number %s", number).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryInvoiceStore) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	all, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return false, err
	}
	for _, inv := range all {
		if inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.WithError(err).
			WithHintf("Invoice not found with id %s", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.WithError(err).
			WithHintf("Invoice not found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if f.InvoiceType != nil && inv.InvoiceType != *f.InvoiceType {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(inv.CustomerName), term) &&
			!strings.Contains(strings.ToLower(inv.InvoiceNumber), term) {
			return false
		}
	}
	return true
}

func invoiceSortFn(filter *types.InvoiceFilter) SortFunc[*invoice.Invoice] {
	asc := filter != nil && filter.GetOrder() == types.OrderAsc
	return func(a, b *invoice.Invoice) bool {
		if asc {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	items, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn(filter))
	if err != nil {
		return nil, err
	}
	result := make([]*invoice.Invoice, len(items))
	for i, inv := range items {
		result[i] = copyInvoice(inv)
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int64, error) {
	count, err := s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
	if err != nil {
		return 0, err
	}
	return int64(count), nil
}

func (s *InMemoryInvoiceStore) ListByDateRange(ctx context.Context, start, end types.Date) ([]*invoice.Invoice, error) {
	all, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var result []*invoice.Invoice
	for _, inv := range all {
		if !inv.InvoiceDate.Before(start) && !inv.InvoiceDate.After(end) {
			result = append(result, copyInvoice(inv))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].InvoiceDate.Before(result[j].InvoiceDate)
	})
	return result, nil
}

func (s *InMemoryInvoiceStore) ListOverdue(ctx context.Context, asOf types.Date) ([]*invoice.Invoice, error) {
	all, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var result []*invoice.Invoice
	for _, inv := range all {
		if inv.IsOverdue(asOf) {
			result = append(result, copyInvoice(inv))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

func (s *InMemoryInvoiceStore) SumTotalAmountByStatus(ctx context.Context, status types.InvoiceStatus) (decimal.Decimal, error) {
	all, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, inv := range all {
		if inv.Status == status {
			total = total.Add(inv.TotalAmount)
		}
	}
	return total, nil
}

func (s *InMemoryInvoiceStore) CountByStatus(ctx context.Context, status types.InvoiceStatus) (int64, error) {
	all, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, inv := range all {
		if inv.Status == status {
			count++
		}
	}
	return count, nil
}

// Clear resets both the stored invoices and the number sequences
func (s *InMemoryInvoiceStore) Clear() {
	s.InMemoryStore.Clear()
	s.seqMu.Lock()
	s.sequences = make(map[string]int64)
	s.seqMu.Unlock()
}

func (s *InMemoryInvoiceStore) NextInvoiceNumber(ctx context.Context) (string, error) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	yearMonth := time.Now().UTC().Format(invoice.SequenceYearMonthFormat)
	s.sequences[yearMonth]++
	return invoice.FormatNumber(yearMonth, s.sequences[yearMonth]), nil
}
