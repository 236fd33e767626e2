package invoice

import (
	"fmt"
	"time"
)

// SequenceYearMonthFormat is the time layout of the sequence partition key
const SequenceYearMonthFormat = "200601"

// Sequence represents the monthly invoice number sequence row. Numbers are
// claimed with an atomic upsert so two concurrent creations can never share
// a value.
type Sequence struct {
	YearMonth string    `db:"year_month"`
	LastValue int64     `db:"last_value"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// InvoiceNumber renders the number the sequence row currently stands for,
// like INV-202506-00042.
func (s Sequence) InvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%05d", s.YearMonth, s.LastValue)
}

// FormatNumber builds an invoice number without a sequence row
func FormatNumber(yearMonth string, value int64) string {
	return Sequence{YearMonth: yearMonth, LastValue: value}.InvoiceNumber()
}
