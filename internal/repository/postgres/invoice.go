package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	domainInvoice "github.com/arpay/arpay/internal/domain/invoice"
	ierr "github.com/arpay/arpay/internal/errors"
	"github.com/arpay/arpay/internal/logger"
	"github.com/arpay/arpay/internal/postgres"
	"github.com/arpay/arpay/internal/types"
)

const pqUniqueViolation = "23505"

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) domainInvoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

const invoiceColumns = `
	id, invoice_number, customer_name, project_name, customer_phone,
	reference, lead_source, amount, tax, total_amount,
	token_amount, agreement_amount, registration_amount,
	agreement_due_date, agreement_due_amount,
	registration_due_date, registration_due_amount,
	status, invoice_type, invoice_date, due_date,
	notes, line_items, attachments,
	created_by, created_at, updated_at`

func (r *invoiceRepository) Create(ctx context.Context, inv *domainInvoice.Invoice) error {
	query := `
	INSERT INTO invoices (` + invoiceColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		$21, $22, $23, $24, $25, $26, $27)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		inv.ID,
		inv.InvoiceNumber,
		inv.CustomerName,
		inv.ProjectName,
		inv.CustomerPhone,
		inv.Reference,
		inv.LeadSource,
		inv.Amount,
		inv.Tax,
		inv.TotalAmount,
		inv.TokenAmount,
		inv.AgreementAmount,
		inv.RegistrationAmount,
		inv.AgreementDueDate,
		inv.AgreementDueAmount,
		inv.RegistrationDueDate,
		inv.RegistrationDueAmount,
		inv.Status,
		inv.InvoiceType,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Notes,
		inv.LineItems,
		inv.Attachments,
		inv.CreatedBy,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("Invoice with number %s already exists", inv.InvoiceNumber).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).WithHint("failed to create invoice").Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*domainInvoice.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1`

	var inv domainInvoice.Invoice
	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Invoice not found with id %s", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("failed to get invoice").Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*domainInvoice.Invoice, error) {
	query := `SELECT * FROM invoices WHERE invoice_number = $1`

	var inv domainInvoice.Invoice
	err := r.db.GetQuerier(ctx).GetContext(ctx, &inv, query, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Invoice not found with number %s", number).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).WithHint("failed to get invoice by number").Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_number = $1)`

	var exists bool
	err := r.db.GetQuerier(ctx).GetContext(ctx, &exists, query, number)
	if err != nil {
		return false, ierr.WithError(err).WithHint("invoice existence check failed").Mark(ierr.ErrDatabase)
	}
	return exists, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domainInvoice.Invoice) error {
	query := `
	UPDATE invoices SET
		customer_name = $2,
		project_name = $3,
		customer_phone = $4,
		reference = $5,
		lead_source = $6,
		amount = $7,
		tax = $8,
		total_amount = $9,
		token_amount = $10,
		agreement_amount = $11,
		registration_amount = $12,
		agreement_due_date = $13,
		agreement_due_amount = $14,
		registration_due_date = $15,
		registration_due_amount = $16,
		status = $17,
		invoice_type = $18,
		invoice_date = $19,
		due_date = $20,
		notes = $21,
		line_items = $22,
		attachments = $23,
		updated_at = $24
	WHERE id = $1
	`

	result, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		inv.ID,
		inv.CustomerName,
		inv.ProjectName,
		inv.CustomerPhone,
		inv.Reference,
		inv.LeadSource,
		inv.Amount,
		inv.Tax,
		inv.TotalAmount,
		inv.TokenAmount,
		inv.AgreementAmount,
		inv.RegistrationAmount,
		inv.AgreementDueDate,
		inv.AgreementDueAmount,
		inv.RegistrationDueDate,
		inv.RegistrationDueAmount,
		inv.Status,
		inv.InvoiceType,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Notes,
		inv.LineItems,
		inv.Attachments,
		inv.UpdatedAt,
	)
	if err != nil {
		return ierr.WithError(err).WithHint("failed to update invoice").Mark(ierr.ErrDatabase)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).WithHint("failed to update invoice").Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice not found with id %s", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invoices WHERE id = $1`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return ierr.WithError(err).WithHint("failed to delete invoice").Mark(ierr.ErrDatabase)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).WithHint("failed to delete invoice").Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice not found with id %s", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*domainInvoice.Invoice, error) {
	where, args := buildInvoiceWhere(filter)

	col, ok := types.InvoiceSortColumn(filter.GetSort())
	if !ok {
		col = "created_at"
	}
	order := "DESC"
	if filter.GetOrder() == types.OrderAsc {
		order = "ASC"
	}

	query := `SELECT * FROM invoices` + where +
		fmt.Sprintf(` ORDER BY %s %s`, col, order)
	if !filter.IsUnlimited() {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, filter.GetSize(), filter.GetOffset())
	}

	var invoices []*domainInvoice.Invoice
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to list invoices").Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int64, error) {
	where, args := buildInvoiceWhere(filter)

	var count int64
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM invoices`+where, args...)
	if err != nil {
		return 0, ierr.WithError(err).WithHint("failed to count invoices").Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) ListByDateRange(ctx context.Context, start, end types.Date) ([]*domainInvoice.Invoice, error) {
	query := `
	SELECT * FROM invoices
	WHERE invoice_date BETWEEN $1 AND $2
	ORDER BY invoice_date ASC`

	var invoices []*domainInvoice.Invoice
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, start, end)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to list invoices by date range").Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) ListOverdue(ctx context.Context, asOf types.Date) ([]*domainInvoice.Invoice, error) {
	query := `
	SELECT * FROM invoices
	WHERE due_date < $1 AND status != $2
	ORDER BY due_date ASC`

	var invoices []*domainInvoice.Invoice
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, asOf, types.InvoiceStatusPaid)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to list overdue invoices").Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) SumTotalAmountByStatus(ctx context.Context, status types.InvoiceStatus) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE status = $1`

	var total decimal.Decimal
	err := r.db.GetQuerier(ctx).GetContext(ctx, &total, query, status)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).WithHint("failed to sum invoice totals").Mark(ierr.ErrDatabase)
	}
	return total, nil
}

func (r *invoiceRepository) CountByStatus(ctx context.Context, status types.InvoiceStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE status = $1`

	var count int64
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count, query, status)
	if err != nil {
		return 0, ierr.WithError(err).WithHint("failed to count invoices by status").Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	yearMonth := time.Now().UTC().Format(domainInvoice.SequenceYearMonthFormat)

	// Atomic increment; two concurrent creations can never read the same
	// value because the upsert serializes on the sequence row.
	query := `
	INSERT INTO invoice_sequences (year_month, last_value, created_at, updated_at)
	VALUES ($1, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT (year_month) DO UPDATE
	SET last_value = invoice_sequences.last_value + 1,
		updated_at = CURRENT_TIMESTAMP
	RETURNING year_month, last_value, created_at, updated_at`

	var seq domainInvoice.Sequence
	err := r.db.GetQuerier(ctx).GetContext(ctx, &seq, query, yearMonth)
	if err != nil {
		return "", ierr.WithError(err).WithHint("invoice number generation failed").Mark(ierr.ErrDatabase)
	}

	r.logger.Infow("generated invoice number",
		"year_month", seq.YearMonth,
		"sequence", seq.LastValue)

	return seq.InvoiceNumber(), nil
}

func buildInvoiceWhere(filter *types.InvoiceFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter == nil {
		return "", nil
	}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.InvoiceType != nil {
		args = append(args, *filter.InvoiceType)
		conditions = append(conditions, fmt.Sprintf("invoice_type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf(
			"(customer_name ILIKE $%d OR invoice_number ILIKE $%d)", len(args), len(args)))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	where := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		where += " AND " + c
	}
	return where, args
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
