package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finledger/finledger/internal/model"
)

var (
	// ErrInvoiceNotFound indicates no invoice matched the caller's id + owner.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrInvoiceNumberExists indicates an invoice number collision.
	ErrInvoiceNumberExists = errors.New("invoice number already exists")
)

// Numeric columns are cast to text on the way out so amounts stay exact
// decimal strings end to end.
const invoiceColumns = `
	id, invoice_number, issue_date, due_date, client_name, client_email,
	subtotal::text, tax_amount::text, total::text,
	currency, status, tax_label, tax_note, created_at, owner_id`

// CreateInvoice inserts an invoice with its line items and computes line
// totals, subtotal, tax and total in NUMERIC arithmetic, all in one
// transaction. taxRate is a percentage; nil means no tax.
func (r *Repository) CreateInvoice(ctx context.Context, ownerID int64, req model.InvoiceCreateRequest, taxRate *string) (*model.Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin invoice creation: %w", err)
	}
	defer tx.Rollback(ctx)

	var invoiceID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, due_date, client_name, client_email, currency, tax_label, tax_note, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		req.InvoiceNumber,
		req.DueDate,
		req.ClientName,
		req.ClientEmail,
		req.Currency,
		req.TaxLabel,
		req.TaxNote,
		ownerID,
	).Scan(&invoiceID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrInvoiceNumberExists
		}
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	for _, item := range req.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (description, quantity, unit_price, line_total, invoice_id, owner_id)
			VALUES ($1, $2::numeric, $3::numeric, $2::numeric * $3::numeric, $4, $5)
		`, item.Description, item.Quantity, item.UnitPrice, invoiceID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to create invoice item: %w", err)
		}
	}

	rate := "0"
	if taxRate != nil {
		rate = *taxRate
	}

	_, err = tx.Exec(ctx, `
		UPDATE invoices SET
			subtotal   = sums.s,
			tax_amount = sums.s * $2::numeric / 100,
			total      = sums.s + sums.s * $2::numeric / 100
		FROM (
			SELECT COALESCE(SUM(line_total), 0) AS s
			FROM invoice_items
			WHERE invoice_id = $1
		) sums
		WHERE id = $1
	`, invoiceID, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute invoice totals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice: %w", err)
	}

	return r.GetInvoice(ctx, invoiceID, ownerID)
}

// GetInvoice retrieves an invoice with its items, scoped to the owner.
func (r *Repository) GetInvoice(ctx context.Context, id, ownerID int64) (*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND owner_id = $2`

	invoice, err := scanInvoice(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	items, err := r.listInvoiceItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	invoice.Items = items[id]
	if invoice.Items == nil {
		invoice.Items = []model.InvoiceItem{}
	}

	return invoice, nil
}

// ListInvoices retrieves all invoices for an owner, newest first, with
// their items.
func (r *Repository) ListInvoices(ctx context.Context, ownerID int64) ([]*model.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*model.Invoice
	var ids []int64
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
		ids = append(ids, invoice.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	if len(ids) == 0 {
		return invoices, nil
	}

	items, err := r.listInvoiceItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, invoice := range invoices {
		invoice.Items = items[invoice.ID]
		if invoice.Items == nil {
			invoice.Items = []model.InvoiceItem{}
		}
	}

	return invoices, nil
}

// UpdateInvoiceStatus sets an invoice's status, scoped to the owner.
func (r *Repository) UpdateInvoiceStatus(ctx context.Context, id, ownerID int64, status string) error {
	query := `
		UPDATE invoices
		SET status = $3
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID, status)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// listInvoiceItems fetches the items of the given invoices in one query,
// grouped by invoice id.
func (r *Repository) listInvoiceItems(ctx context.Context, invoiceIDs []int64) (map[int64][]model.InvoiceItem, error) {
	query := `
		SELECT invoice_id, id, description, quantity::text, unit_price::text, line_total::text
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, id
	`

	rows, err := r.pool.Query(ctx, query, invoiceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]model.InvoiceItem)
	for rows.Next() {
		var invoiceID int64
		var item model.InvoiceItem
		err := rows.Scan(&invoiceID, &item.ID, &item.Description, &item.Quantity, &item.UnitPrice, &item.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items[invoiceID] = append(items[invoiceID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return items, nil
}

// scanInvoice scans one invoice row (without items).
func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	var invoice model.Invoice
	err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceNumber,
		&invoice.IssueDate,
		&invoice.DueDate,
		&invoice.ClientName,
		&invoice.ClientEmail,
		&invoice.Subtotal,
		&invoice.TaxAmount,
		&invoice.Total,
		&invoice.Currency,
		&invoice.Status,
		&invoice.TaxLabel,
		&invoice.TaxNote,
		&invoice.CreatedAt,
		&invoice.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
